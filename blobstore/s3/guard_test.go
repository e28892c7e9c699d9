package s3

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPublishGuard_Claim(t *testing.T) {
	ddb := new(MockDDBClient)
	g := NewPublishGuard(ddb, "pivotsplit-publish", "run-a")
	g.now = func() time.Time { return time.Unix(1700000000, 0) }

	ddb.On("PutItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
		target, _ := in.Item["target"].(*types.AttributeValueMemberS)
		owner, _ := in.Item["owner"].(*types.AttributeValueMemberS)
		at, _ := in.Item["claimed_at"].(*types.AttributeValueMemberN)
		return *in.TableName == "pivotsplit-publish" &&
			target != nil && target.Value == "s3://bucket/run" &&
			owner != nil && owner.Value == "run-a" &&
			at != nil && at.Value == "1700000000" &&
			in.ConditionExpression != nil
	})).Return(&dynamodb.PutItemOutput{}, nil).Once()

	require.NoError(t, g.Claim(context.Background(), "s3://bucket/run"))
	ddb.AssertExpectations(t)
}

func TestPublishGuard_ClaimConflict(t *testing.T) {
	ddb := new(MockDDBClient)
	g := NewPublishGuard(ddb, "t", "run-b")

	ddb.On("PutItem", mock.Anything, mock.Anything).
		Return(nil, &types.ConditionalCheckFailedException{}).Once()

	err := g.Claim(context.Background(), "s3://bucket/run")
	assert.ErrorIs(t, err, ErrConcurrentPublish)
}

func TestPublishGuard_Release(t *testing.T) {
	ddb := new(MockDDBClient)
	g := NewPublishGuard(ddb, "t", "run-a")
	boom := errors.New("throttled")

	ddb.On("DeleteItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.DeleteItemInput) bool {
		k, _ := in.Key["target"].(*types.AttributeValueMemberS)
		return k != nil && k.Value == "s3://bucket/run"
	})).Return(&dynamodb.DeleteItemOutput{}, nil).Once()
	ddb.On("DeleteItem", mock.Anything, mock.Anything).Return(nil, boom).Once()

	require.NoError(t, g.Release(context.Background(), "s3://bucket/run"))
	assert.ErrorIs(t, g.Release(context.Background(), "s3://bucket/other"), boom)
}
