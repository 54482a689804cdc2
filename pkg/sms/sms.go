// Package sms delivers phone verification messages. The gateway wire format
// is hidden behind Sender; the default sender logs the message so the flow
// works end to end before a provider account exists.
package sms

import "log"

type Sender interface {
	Send(to, message string) error
}

// LogSender stands in for a real gateway in development environments.
type LogSender struct{}

func (LogSender) Send(to, message string) error {
	log.Printf("SMS to %s: %s", to, message)
	return nil
}

var Default Sender = LogSender{}

func Send(to, message string) error {
	return Default.Send(to, message)
}
