package dynamo

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// subscribedIndex is the GSI used by bulk dispatch to find every opted-in
// subscriber without scanning send-event records.
const subscribedIndex = "is_subscribed-index"

// Bootstrap creates the newsletter table and its subscriber GSI if they
// don't already exist. Safe to call on every startup.
func Bootstrap(ctx context.Context, client *dynamodb.Client, tableName string) {
	_, err := client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName:   aws.String(tableName),
		BillingMode: types.BillingModePayPerRequest,
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("partitionKey"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("sortKey"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("is_subscribed"), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("partitionKey"), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String("sortKey"), KeyType: types.KeyTypeRange},
		},
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
			{
				IndexName: aws.String(subscribedIndex),
				KeySchema: []types.KeySchemaElement{
					{AttributeName: aws.String("is_subscribed"), KeyType: types.KeyTypeHash},
				},
				Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
			},
		},
	})
	if err != nil {
		// ResourceInUseException means the table already exists — that's fine.
		var riue *types.ResourceInUseException
		if !errors.As(err, &riue) {
			slog.Warn("could not create table", "table", tableName, "err", err)
		}
		return
	}
	slog.Info("created table", "table", tableName)
}
