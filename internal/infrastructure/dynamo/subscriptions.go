package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/meadow/newsletter-api/internal/domain"
)

// SubscriptionRepo manages the one-per-email subscription records.
// PK: email, SK: "NEWSLETTER_SIGNUP".
type SubscriptionRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewSubscriptionRepo(client *dynamodb.Client, tableName string) *SubscriptionRepo {
	return &SubscriptionRepo{client: client, tableName: tableName}
}

// Create writes the subscription record only if none exists for the email.
// A losing write (record already present) returns domain.ErrConflict; this
// is the only duplicate-signup detection in the system.
func (r *SubscriptionRepo) Create(ctx context.Context, sub *domain.Subscription) error {
	item, err := attributevalue.MarshalMap(sub)
	if err != nil {
		return fmt.Errorf("marshal subscription: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(partitionKey)"),
	})
	if isConditionalCheckFailed(err) {
		return fmt.Errorf("subscription already exists: %w", domain.ErrConflict)
	}
	return err
}

// Confirm marks the subscription validated and subscribed in a single
// conditional update, guarded on the record existing and its stored token
// equalling the supplied one. The token is never rotated, so replaying a
// valid confirmation is an idempotent no-op. A failed condition (unknown
// email or token mismatch, indistinguishable on purpose) returns
// domain.ErrUnauthorized.
func (r *SubscriptionRepo) Confirm(ctx context.Context, email, token string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 recordKey(email, domain.SortKeySignup),
		UpdateExpression:    aws.String("SET is_validated = :v, is_subscribed = :s"),
		ConditionExpression: aws.String("attribute_exists(partitionKey) AND random_string = :t"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberBOOL{Value: true},
			":s": &types.AttributeValueMemberS{Value: domain.SubscribedTrue},
			":t": &types.AttributeValueMemberS{Value: token},
		},
	})
	if isConditionalCheckFailed(err) {
		return fmt.Errorf("no subscription with matching token: %w", domain.ErrUnauthorized)
	}
	return err
}

// SetUnsubscribed clears the opt-in flag. Unconditional: authorization has
// already been proven against the send-event record by the caller.
func (r *SubscriptionRepo) SetUnsubscribed(ctx context.Context, email string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(r.tableName),
		Key:              recordKey(email, domain.SortKeySignup),
		UpdateExpression: aws.String("SET is_subscribed = :s"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":s": &types.AttributeValueMemberS{Value: domain.SubscribedFalse},
		},
	})
	return err
}

// ListSubscribed returns every currently opted-in subscription via the
// subscriber GSI, following pagination until the result set is exhausted.
func (r *SubscriptionRepo) ListSubscribed(ctx context.Context) ([]domain.Subscription, error) {
	var subs []domain.Subscription
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(r.tableName),
			IndexName:              aws.String(subscribedIndex),
			KeyConditionExpression: aws.String("is_subscribed = :s"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":s": &types.AttributeValueMemberS{Value: domain.SubscribedTrue},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("query subscribers: %w", err)
		}
		var page []domain.Subscription
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("unmarshal subscribers: %w", err)
		}
		subs = append(subs, page...)
		if out.LastEvaluatedKey == nil {
			return subs, nil
		}
		startKey = out.LastEvaluatedKey
	}
}
