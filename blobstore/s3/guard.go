package s3

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ErrConcurrentPublish is returned when another run holds the claim on a
// publish target.
var ErrConcurrentPublish = errors.New("publish target claimed by another run")

// DDBClient is the interface for DynamoDB operations.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// PublishGuard claims a publish target in a DynamoDB table so that only one
// run writes artifacts under it at a time.
//
// Table schema:
//   - Partition key: target (string) - the s3://bucket/prefix being written
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name pivotsplit-publish \
//	  --attribute-definitions AttributeName=target,AttributeType=S \
//	  --key-schema AttributeName=target,KeyType=HASH \
//	  --billing-mode PAY_PER_REQUEST
type PublishGuard struct {
	client DDBClient
	table  string
	owner  string
	now    func() time.Time
}

// NewPublishGuard creates a guard that claims targets on behalf of owner.
func NewPublishGuard(client DDBClient, table, owner string) *PublishGuard {
	return &PublishGuard{client: client, table: table, owner: owner, now: time.Now}
}

// NewPublishGuardFromConfig creates a DynamoDB client with the default AWS
// credential chain.
func NewPublishGuardFromConfig(ctx context.Context, table, owner string) (*PublishGuard, error) {
	cfg, err := loadAWSConfig(ctx)
	if err != nil {
		return nil, err
	}
	return NewPublishGuard(dynamodb.NewFromConfig(cfg), table, owner), nil
}

// Claim takes target for the guard's owner. Re-claiming an owned target
// succeeds.
func (g *PublishGuard) Claim(ctx context.Context, target string) error {
	_, err := g.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(g.table),
		Item: map[string]types.AttributeValue{
			"target":     &types.AttributeValueMemberS{Value: target},
			"owner":      &types.AttributeValueMemberS{Value: g.owner},
			"claimed_at": &types.AttributeValueMemberN{Value: strconv.FormatInt(g.now().Unix(), 10)},
		},
		ConditionExpression: aws.String("attribute_not_exists(#t) OR #o = :owner"),
		ExpressionAttributeNames: map[string]string{
			"#t": "target",
			"#o": "owner",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":owner": &types.AttributeValueMemberS{Value: g.owner},
		},
	})
	return g.classify(target, err)
}

// Release gives target up. Releasing a target owned by someone else fails
// with ErrConcurrentPublish.
func (g *PublishGuard) Release(ctx context.Context, target string) error {
	_, err := g.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(g.table),
		Key: map[string]types.AttributeValue{
			"target": &types.AttributeValueMemberS{Value: target},
		},
		ConditionExpression:      aws.String("attribute_not_exists(#t) OR #o = :owner"),
		ExpressionAttributeNames: map[string]string{"#t": "target", "#o": "owner"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":owner": &types.AttributeValueMemberS{Value: g.owner},
		},
	})
	return g.classify(target, err)
}

func (g *PublishGuard) classify(target string, err error) error {
	if err == nil {
		return nil
	}
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return fmt.Errorf("%w: %s", ErrConcurrentPublish, target)
	}
	return err
}
