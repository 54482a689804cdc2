package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"mime/multipart"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/chai2010/webp"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

// MaxImageWidth bounds stored listing images; wider uploads are downscaled
// preserving aspect ratio.
const MaxImageWidth = 1920

var (
	s3Client *s3.Client
	bucket   string
	region   string
)

func InitStorage() error {
	bucket = os.Getenv("AWS_BUCKET_NAME")
	if bucket == "" {
		bucket = "umuhuza-uploads"
	}
	region = os.Getenv("AWS_REGION")
	if region == "" {
		region = "eu-central-1"
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return fmt.Errorf("unable to load SDK config: %v", err)
	}

	s3Client = s3.NewFromConfig(cfg)
	return nil
}

// processImage re-encodes the upload so stored files carry no metadata, a
// bounded quality and a bounded width. Format follows the source: jpeg/png/webp.
func processImage(src multipart.File) (*bytes.Buffer, string, error) {
	img, format, err := image.Decode(src)
	if err != nil {
		return nil, "", fmt.Errorf("could not decode image: %v", err)
	}

	if bounds := img.Bounds(); bounds.Dx() > MaxImageWidth {
		height := bounds.Dy() * MaxImageWidth / bounds.Dx()
		scaled := image.NewRGBA(image.Rect(0, 0, MaxImageWidth, height))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, bounds, draw.Over, nil)
		img = scaled
	}

	buf := new(bytes.Buffer)

	switch format {
	case "jpeg":
		err = jpeg.Encode(buf, img, &jpeg.Options{Quality: 85})
	case "png":
		err = png.Encode(buf, img)
	case "webp":
		err = webp.Encode(buf, img, &webp.Options{Lossless: false, Quality: 85})
	default:
		return nil, "", fmt.Errorf("unsupported image format: %s", format)
	}

	if err != nil {
		return nil, "", fmt.Errorf("could not encode image: %v", err)
	}

	return buf, fmt.Sprintf("image/%s", format), nil
}

// UploadListingImage validates, re-encodes and uploads a listing image,
// returning its public URL.
func UploadListingImage(file *multipart.FileHeader, listingID uint) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	buf, contentType, err := processImage(src)
	if err != nil {
		return "", err
	}

	ext := strings.TrimPrefix(contentType, "image/")
	key := fmt.Sprintf("listings/%d/%s.%s", listingID, uuid.New().String(), ext)

	return putObject(key, buf, contentType)
}

// UploadDealerDocument stores a dealer onboarding document as-is.
func UploadDealerDocument(file *multipart.FileHeader, applicationID uint) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(src); err != nil {
		return "", err
	}

	contentType := file.Header.Get("Content-Type")
	key := fmt.Sprintf("dealer-documents/%d/%s_%s", applicationID, uuid.New().String(), file.Filename)

	return putObject(key, buf, contentType)
}

func putObject(key string, buf *bytes.Buffer, contentType string) (string, error) {
	_, err := s3Client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("could not upload to S3: %v", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, key), nil
}

// DeleteObject removes a previously uploaded file given its public URL.
func DeleteObject(url string) error {
	prefix := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", bucket, region)
	key := strings.TrimPrefix(url, prefix)
	if key == url {
		return fmt.Errorf("url does not belong to bucket %s", bucket)
	}

	_, err := s3Client.DeleteObject(context.TODO(), &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	return err
}
