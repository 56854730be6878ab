package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/meadow/newsletter-api/internal/domain"
)

// SendEventRepo manages the append-only audit records written alongside
// every outbound email. PK: email, SK: "EMAIL_SENT#<timestamp>".
type SendEventRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewSendEventRepo(client *dynamodb.Client, tableName string) *SendEventRepo {
	return &SendEventRepo{client: client, tableName: tableName}
}

// Create appends a send-event record. The key must be absent; a collision
// (same email, same second) returns domain.ErrConflict.
func (r *SendEventRepo) Create(ctx context.Context, ev *domain.SendEvent) error {
	item, err := attributevalue.MarshalMap(ev)
	if err != nil {
		return fmt.Errorf("marshal send event: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(partitionKey)"),
	})
	if isConditionalCheckFailed(err) {
		return fmt.Errorf("send event already recorded: %w", domain.ErrConflict)
	}
	return err
}

// Get fetches the send-event at the exact (email, timestamp) pair with a
// strongly consistent read, so an unsubscribe arriving right after a send
// still sees its proof record. Missing records return domain.ErrNotFound.
func (r *SendEventRepo) Get(ctx context.Context, email, timestamp string) (*domain.SendEvent, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:            aws.String(r.tableName),
		Key:                  recordKey(email, domain.SentSortKey(timestamp)),
		ConsistentRead:       aws.Bool(true),
		ProjectionExpression: aws.String("random_string"),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Item) == 0 {
		return nil, fmt.Errorf("send event not found: %w", domain.ErrNotFound)
	}
	var ev domain.SendEvent
	if err := attributevalue.UnmarshalMap(out.Item, &ev); err != nil {
		return nil, err
	}
	ev.Email = email
	ev.SortKey = domain.SentSortKey(timestamp)
	return &ev, nil
}
