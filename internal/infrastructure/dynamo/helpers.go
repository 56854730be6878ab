package dynamo

import (
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// recordKey builds the composite (partitionKey, sortKey) primary key every
// record in the table lives under.
func recordKey(email, sortKey string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"partitionKey": &types.AttributeValueMemberS{Value: email},
		"sortKey":      &types.AttributeValueMemberS{Value: sortKey},
	}
}

// isConditionalCheckFailed reports whether err is DynamoDB rejecting a
// conditional write. Both repos rely on this to turn race outcomes into
// domain sentinels instead of infrastructure errors.
func isConditionalCheckFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}
