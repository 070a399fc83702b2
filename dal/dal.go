package dal

import (
	"context"
	"errors"
	"fmt"

	"sevasetu-backend/models"
	"sevasetu-backend/utils/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

// ErrConditionFailed is returned by ConditionalUpdateItem when the
// precondition did not hold at write time. Callers translate it into their
// own domain failure (e.g. a lost accept race).
var ErrConditionFailed = errors.New("conditional update precondition failed")

type DynamoDBClient struct {
	client *dynamodb.Client
	config *models.Config
	logger logger.Logger
}

// NewDynamoDBClient creates a new DynamoDB client
func NewDynamoDBClient(cfg *models.Config, log logger.Logger) (*DynamoDBClient, error) {
	awsCfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// Override endpoint for local DynamoDB
	if cfg.DynamoDBEndpoint != "" {
		awsCfg.EndpointResolver = aws.EndpointResolverFunc(func(service, region string) (aws.Endpoint, error) {
			return aws.Endpoint{
				URL:           cfg.DynamoDBEndpoint,
				SigningRegion: cfg.AWSRegion,
			}, nil
		})
	}

	// Use static credentials if provided
	if cfg.AWSAccessKeyID != "" && cfg.AWSSecretAccessKey != "" {
		awsCfg.Credentials = aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"", // session token
		))
	}

	client := dynamodb.NewFromConfig(awsCfg)

	dbClient := &DynamoDBClient{
		client: client,
		config: cfg,
		logger: log,
	}

	log.Info("DynamoDB client initialized successfully")
	return dbClient, nil
}

// GetItem retrieves an item from DynamoDB by primary key
func (db *DynamoDBClient) GetItem(ctx context.Context, tableName, key, value string, result interface{}) (bool, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(tableName),
		Key: map[string]types.AttributeValue{
			key: &types.AttributeValueMemberS{Value: value},
		},
	}

	output, err := db.client.GetItem(ctx, input)
	if err != nil {
		db.logger.Errorf("Failed to get item from %s: %v", tableName, err)
		return false, err
	}

	if output.Item == nil {
		return false, nil
	}

	return true, attributevalue.UnmarshalMap(output.Item, result)
}

// PutItem stores an item in DynamoDB
func (db *DynamoDBClient) PutItem(ctx context.Context, tableName string, item interface{}) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(tableName),
		Item:      av,
	}

	_, err = db.client.PutItem(ctx, input)
	return err
}

// UpdateItem applies a partial update to an item
func (db *DynamoDBClient) UpdateItem(ctx context.Context, tableName, key, keyValue string, updates map[string]interface{}) error {
	return db.update(ctx, tableName, key, keyValue, updates, "", nil)
}

// ConditionalUpdateItem applies a partial update only while the named
// attribute still equals expected. The read-check-write of a status
// transition collapses into this single call: the loser of a concurrent
// race gets ErrConditionFailed instead of silently overwriting the winner.
func (db *DynamoDBClient) ConditionalUpdateItem(ctx context.Context, tableName, key, keyValue string, updates map[string]interface{}, condField string, expected interface{}) error {
	return db.update(ctx, tableName, key, keyValue, updates, condField, expected)
}

func (db *DynamoDBClient) update(ctx context.Context, tableName, key, keyValue string, updates map[string]interface{}, condField string, expected interface{}) error {
	updateExpression := "SET "
	expressionAttributeNames := make(map[string]string)
	expressionAttributeValues := make(map[string]types.AttributeValue)

	i := 0
	for field, value := range updates {
		if i > 0 {
			updateExpression += ", "
		}

		attrName := "#" + field
		attrValue := ":" + field

		updateExpression += attrName + " = " + attrValue
		expressionAttributeNames[attrName] = field

		av, err := attributevalue.Marshal(value)
		if err != nil {
			return err
		}
		expressionAttributeValues[attrValue] = av
		i++
	}

	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(tableName),
		Key: map[string]types.AttributeValue{
			key: &types.AttributeValueMemberS{Value: keyValue},
		},
		UpdateExpression:          aws.String(updateExpression),
		ExpressionAttributeNames:  expressionAttributeNames,
		ExpressionAttributeValues: expressionAttributeValues,
		ReturnValues:              types.ReturnValueAllNew,
	}

	if condField != "" {
		av, err := attributevalue.Marshal(expected)
		if err != nil {
			return err
		}
		expressionAttributeNames["#cond"] = condField
		expressionAttributeValues[":cond"] = av
		input.ConditionExpression = aws.String("#cond = :cond")
	}

	_, err := db.client.UpdateItem(ctx, input)
	if err != nil && isConditionalCheckFailed(err) {
		return ErrConditionFailed
	}
	return err
}

// AddToSet atomically adds values to a string-set attribute, creating the
// set on first use. Adding a member that is already present is a no-op, so
// concurrent adds can never lose each other's writes.
func (db *DynamoDBClient) AddToSet(ctx context.Context, tableName, key, keyValue, field string, values []string) error {
	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(tableName),
		Key: map[string]types.AttributeValue{
			key: &types.AttributeValueMemberS{Value: keyValue},
		},
		UpdateExpression: aws.String("ADD #field :values"),
		ExpressionAttributeNames: map[string]string{
			"#field": field,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":values": &types.AttributeValueMemberSS{Value: values},
		},
	}

	_, err := db.client.UpdateItem(ctx, input)
	if err != nil {
		db.logger.Errorf("Failed to add to set %s.%s: %v", tableName, field, err)
	}
	return err
}

// isConditionalCheckFailed checks for the DynamoDB condition failure code
func isConditionalCheckFailed(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == "ConditionalCheckFailedException"
	}
	return false
}

// DeleteItem deletes an item from DynamoDB
func (db *DynamoDBClient) DeleteItem(ctx context.Context, tableName, key, value string) error {
	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(tableName),
		Key: map[string]types.AttributeValue{
			key: &types.AttributeValueMemberS{Value: value},
		},
	}

	_, err := db.client.DeleteItem(ctx, input)
	return err
}

// QueryByIndex queries items using a global secondary index per cfg
func (db *DynamoDBClient) QueryByIndex(ctx context.Context, cfg models.QueryConfig, results interface{}) error {
	limit := cfg.Limit
	if limit <= 0 {
		limit = 50
	}

	input := &dynamodb.QueryInput{
		TableName:              aws.String(cfg.TableName),
		Limit:                  aws.Int32(limit),
		KeyConditionExpression: aws.String("#kn0 = :kv0"),
		ExpressionAttributeNames: map[string]string{
			"#kn0": cfg.KeyName,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":kv0": &types.AttributeValueMemberS{Value: cfg.KeyValue},
		},
		ScanIndexForward: aws.Bool(!cfg.Descending),
	}

	if cfg.IndexName != "" {
		input.IndexName = aws.String(cfg.IndexName)
	}

	if cfg.RangeKeyName != "" {
		input.KeyConditionExpression = aws.String("#kn0 = :kv0 AND #rk0 BETWEEN :rs0 AND :re0")
		input.ExpressionAttributeNames["#rk0"] = cfg.RangeKeyName
		input.ExpressionAttributeValues[":rs0"] = &types.AttributeValueMemberS{Value: cfg.RangeStart}
		input.ExpressionAttributeValues[":re0"] = &types.AttributeValueMemberS{Value: cfg.RangeEnd}
	}

	if cfg.FilterName != "" {
		input.FilterExpression = aws.String("#fn0 = :fv0")
		input.ExpressionAttributeNames["#fn0"] = cfg.FilterName
		input.ExpressionAttributeValues[":fv0"] = &types.AttributeValueMemberS{Value: cfg.FilterValue}
	}

	output, err := db.client.Query(ctx, input)
	if err != nil {
		return err
	}

	return attributevalue.UnmarshalListOfMaps(output.Items, results)
}

// Scan scans the entire table
func (db *DynamoDBClient) Scan(ctx context.Context, tableName string, results interface{}) error {
	input := &dynamodb.ScanInput{
		TableName: aws.String(tableName),
	}

	output, err := db.client.Scan(ctx, input)
	if err != nil {
		return err
	}

	return attributevalue.UnmarshalListOfMaps(output.Items, results)
}

// CreateTable creates a table
func (db *DynamoDBClient) CreateTable(ctx context.Context, input *dynamodb.CreateTableInput) error {
	_, err := db.client.CreateTable(ctx, input)
	return err
}

// DescribeTable describes a table
func (db *DynamoDBClient) DescribeTable(ctx context.Context, tableName string) (*dynamodb.DescribeTableOutput, error) {
	input := &dynamodb.DescribeTableInput{
		TableName: aws.String(tableName),
	}
	return db.client.DescribeTable(ctx, input)
}
