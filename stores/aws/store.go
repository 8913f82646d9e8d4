package aws

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"path"

	"cardcraft/core"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
)

const cardPrefix = "cards/"

// s3Store is the remote higher-capacity swap-in: one object per saved
// card under a fixed prefix. Write replaces the whole collection, so
// objects missing from the incoming set are removed.
type s3Store struct {
	s3Client *s3.Client
	bucket   string
}

// NewStore creates a new S3-based collection store.
func NewStore(bucketName string) *s3Store {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	return &s3Store{
		s3Client: s3.NewFromConfig(cfg),
		bucket:   bucketName,
	}
}

func (s *s3Store) cardKey(id string) (string, error) {
	// IDs must be simple names, not paths.
	if id == "" || path.Base(id) != id {
		return "", fmt.Errorf("invalid card id %q", id)
	}
	return cardPrefix + id + ".json", nil
}

func (s *s3Store) Read(ctx context.Context) ([]core.SavedCard, error) {
	output, err := s.s3Client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(cardPrefix),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list saved cards: %v", err)
	}

	cards := make([]core.SavedCard, 0, len(output.Contents))
	for _, object := range output.Contents {
		resp, err := s.s3Client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    object.Key,
		})
		if err != nil {
			logrus.WithError(err).WithField("key", *object.Key).Warn("Failed to get object, skipping")
			continue
		}
		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			logrus.WithError(err).WithField("key", *object.Key).Warn("Failed to read object body, skipping")
			continue
		}

		var card core.SavedCard
		if err := json.Unmarshal(data, &card); err != nil {
			logrus.WithError(err).WithField("key", *object.Key).Warn("Failed to unmarshal saved card, skipping")
			continue
		}
		cards = append(cards, card)
	}

	return cards, nil
}

func (s *s3Store) Write(ctx context.Context, cards []core.SavedCard) (core.WriteResult, error) {
	keep := make(map[string]bool, len(cards))
	size := 0

	for _, card := range cards {
		key, err := s.cardKey(card.ID)
		if err != nil {
			return core.WriteResult{}, err
		}
		keep[key] = true

		data, err := json.Marshal(card)
		if err != nil {
			return core.WriteResult{}, fmt.Errorf("failed to marshal saved card: %v", err)
		}
		size += len(data)

		_, err = s.s3Client.PutObject(ctx, &s3.PutObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
			Body:   bytes.NewReader(data),
		})
		if err != nil {
			return core.WriteResult{}, fmt.Errorf("failed to save card %s: %v", card.ID, err)
		}
	}

	// Remove objects for cards no longer in the collection.
	output, err := s.s3Client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(cardPrefix),
	})
	if err != nil {
		return core.WriteResult{Size: size}, fmt.Errorf("failed to list saved cards for cleanup: %v", err)
	}
	for _, object := range output.Contents {
		if keep[*object.Key] {
			continue
		}
		_, err := s.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    object.Key,
		})
		if err != nil {
			logrus.WithError(err).WithField("key", *object.Key).Warn("Failed to delete stale object")
		}
	}

	logrus.WithFields(logrus.Fields{
		"cards":       len(cards),
		"data_length": size,
	}).Debug("Collection written to s3")
	return core.WriteResult{Size: size}, nil
}
