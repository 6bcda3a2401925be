package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/kingrain94/notes-saas-api/internal/config"
	"github.com/kingrain94/notes-saas-api/internal/domain"
)

type MessageType string

const (
	MessageTypeIndex      MessageType = "INDEX"
	MessageTypeDelete     MessageType = "DELETE"
	MessageTypeDeleteUser MessageType = "DELETE_USER"
	MessageTypeExport     MessageType = "EXPORT"
)

type Message struct {
	Type       MessageType  `json:"type"`
	TenantSlug string       `json:"tenant_slug"`
	Note       *domain.Note `json:"note,omitempty"`
	NoteID     string       `json:"note_id,omitempty"`
	UserID     string       `json:"user_id,omitempty"`
	// RequestedBy is the admin that asked for an export.
	RequestedBy string    `json:"requested_by,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

type ReceivedMessage struct {
	Message       Message
	ReceiptHandle *string
}

// Client is the subset of the SQS API the service uses.
type Client interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

type SQSService struct {
	client         Client
	indexQueueURL  string
	exportQueueURL string
}

func NewSQSService(client Client, config *config.SQSConfig) *SQSService {
	return &SQSService{
		client:         client,
		indexQueueURL:  config.IndexQueueURL,
		exportQueueURL: config.ExportQueueURL,
	}
}

func (s *SQSService) IndexQueueURL() string {
	return s.indexQueueURL
}

func (s *SQSService) ExportQueueURL() string {
	return s.exportQueueURL
}

func (s *SQSService) SendIndexMessage(ctx context.Context, note *domain.Note) error {
	msg := Message{
		Type:       MessageTypeIndex,
		TenantSlug: note.TenantSlug,
		Note:       note,
		NoteID:     note.ID,
		Timestamp:  time.Now().UTC(),
	}

	return s.sendMessage(ctx, msg, s.indexQueueURL)
}

func (s *SQSService) SendDeleteMessage(ctx context.Context, tenantSlug, noteID string) error {
	msg := Message{
		Type:       MessageTypeDelete,
		TenantSlug: tenantSlug,
		NoteID:     noteID,
		Timestamp:  time.Now().UTC(),
	}

	return s.sendMessage(ctx, msg, s.indexQueueURL)
}

func (s *SQSService) SendDeleteUserMessage(ctx context.Context, tenantSlug, userID string) error {
	msg := Message{
		Type:       MessageTypeDeleteUser,
		TenantSlug: tenantSlug,
		UserID:     userID,
		Timestamp:  time.Now().UTC(),
	}

	return s.sendMessage(ctx, msg, s.indexQueueURL)
}

func (s *SQSService) SendExportMessage(ctx context.Context, tenantSlug, requestedBy string) error {
	msg := Message{
		Type:        MessageTypeExport,
		TenantSlug:  tenantSlug,
		RequestedBy: requestedBy,
		Timestamp:   time.Now().UTC(),
	}

	return s.sendMessage(ctx, msg, s.exportQueueURL)
}

func (s *SQSService) sendMessage(ctx context.Context, msg Message, queueURL string) error {
	msgBody, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	input := &sqs.SendMessageInput{
		MessageBody: aws.String(string(msgBody)),
		QueueUrl:    aws.String(queueURL),
	}

	if _, err := s.client.SendMessage(ctx, input); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}

// ReceiveMessages long-polls queueURL. Bodies that do not decode are returned with a
// zero Message so the caller can still delete them.
func (s *SQSService) ReceiveMessages(ctx context.Context, queueURL string, maxMessages int32, waitTimeSeconds int32) ([]ReceivedMessage, error) {
	input := &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(queueURL),
		MaxNumberOfMessages: maxMessages,
		WaitTimeSeconds:     waitTimeSeconds,
	}

	output, err := s.client.ReceiveMessage(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to receive messages: %w", err)
	}

	messages := make([]ReceivedMessage, 0, len(output.Messages))
	for _, msg := range output.Messages {
		var message Message
		if msg.Body != nil {
			_ = json.Unmarshal([]byte(*msg.Body), &message)
		}
		messages = append(messages, ReceivedMessage{
			Message:       message,
			ReceiptHandle: msg.ReceiptHandle,
		})
	}

	return messages, nil
}

func (s *SQSService) DeleteMessage(ctx context.Context, queueURL string, receiptHandle *string) error {
	input := &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(queueURL),
		ReceiptHandle: receiptHandle,
	}

	if _, err := s.client.DeleteMessage(ctx, input); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}

	return nil
}
