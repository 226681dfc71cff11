// Package dynamodb stores rows as items keyed by (tbl, idx). idx is the
// zero-based row position, assigned densely on append.
package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"hrcore/pkg/domain"
)

// appendAttempts bounds the optimistic retries when another writer claims
// the same idx first.
const appendAttempts = 5

// API is the subset of the DynamoDB client used by Store.
type API interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// Config holds construction parameters.
type Config struct {
	Table    string
	Region   string
	Endpoint string // optional; e.g. DynamoDB Local
}

type rowItem struct {
	Table string   `dynamodbav:"tbl"`
	Index int      `dynamodbav:"idx"`
	Cells []string `dynamodbav:"cells"`
}

// Store implements domain.RowStore on a single DynamoDB table.
type Store struct {
	api   API
	table string
}

var _ domain.RowStore = (*Store)(nil)

// NewStore builds a client from the default AWS configuration chain.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Table == "" {
		return nil, errors.New("dynamodb table required")
	}
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return New(client, cfg.Table), nil
}

// New wraps an existing client.
func New(api API, table string) *Store {
	return &Store{api: api, table: table}
}

// AppendRow implements domain.RowStore.
func (s *Store) AppendRow(ctx context.Context, table string, row domain.Row) error {
	cells := []string(row.Clone())
	if cells == nil {
		cells = []string{}
	}
	cond, err := expression.NewBuilder().
		WithCondition(expression.Name("idx").AttributeNotExists()).
		Build()
	if err != nil {
		return fmt.Errorf("dynamodb: build condition: %w", err)
	}
	for attempt := 0; attempt < appendAttempts; attempt++ {
		next, err := s.nextIndex(ctx, table)
		if err != nil {
			return err
		}
		item, err := attributevalue.MarshalMap(rowItem{Table: table, Index: next, Cells: cells})
		if err != nil {
			return fmt.Errorf("dynamodb: marshal row: %w", err)
		}
		_, err = s.api.PutItem(ctx, &dynamodb.PutItemInput{
			TableName:                 aws.String(s.table),
			Item:                      item,
			ConditionExpression:       cond.Condition(),
			ExpressionAttributeNames:  cond.Names(),
			ExpressionAttributeValues: cond.Values(),
		})
		if err == nil {
			return nil
		}
		var conflict *types.ConditionalCheckFailedException
		if !errors.As(err, &conflict) {
			return fmt.Errorf("dynamodb: append %s: %w", table, err)
		}
	}
	return fmt.Errorf("dynamodb: append %s: idx contention after %d attempts", table, appendAttempts)
}

// nextIndex returns one past the highest idx in table.
func (s *Store) nextIndex(ctx context.Context, table string) (int, error) {
	expr, err := s.keyExpr(table)
	if err != nil {
		return 0, err
	}
	out, err := s.api.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(s.table),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(false),
		Limit:                     aws.Int32(1),
		ConsistentRead:            aws.Bool(true),
	})
	if err != nil {
		return 0, fmt.Errorf("dynamodb: query %s: %w", table, err)
	}
	if len(out.Items) == 0 {
		return 0, nil
	}
	var last rowItem
	if err := attributevalue.UnmarshalMap(out.Items[0], &last); err != nil {
		return 0, fmt.Errorf("dynamodb: unmarshal row: %w", err)
	}
	return last.Index + 1, nil
}

// ReadAllRows implements domain.RowStore.
func (s *Store) ReadAllRows(ctx context.Context, table string) ([]domain.Row, error) {
	expr, err := s.keyExpr(table)
	if err != nil {
		return nil, err
	}
	input := &dynamodb.QueryInput{
		TableName:                 aws.String(s.table),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(true),
		ConsistentRead:            aws.Bool(true),
	}
	var rows []domain.Row
	for {
		out, err := s.api.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("dynamodb: query %s: %w", table, err)
		}
		for _, raw := range out.Items {
			var item rowItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				return nil, fmt.Errorf("dynamodb: unmarshal row: %w", err)
			}
			rows = append(rows, domain.Row(item.Cells))
		}
		if len(out.LastEvaluatedKey) == 0 {
			return rows, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

// UpdateCell implements domain.RowStore. Columns inside the stored list are
// set in place; a column past the end rewrites the padded list.
func (s *Store) UpdateCell(ctx context.Context, table string, row, column int, value string) error {
	if column < 0 {
		return fmt.Errorf("dynamodb: negative column %d", column)
	}
	if row < 0 {
		return fmt.Errorf("dynamodb: table %q row %d: %w", table, row, domain.ErrRowOutOfRange)
	}
	key, err := itemKey(table, row)
	if err != nil {
		return err
	}
	got, err := s.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.table),
		Key:            key,
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("dynamodb: get %s/%d: %w", table, row, err)
	}
	if len(got.Item) == 0 {
		return fmt.Errorf("dynamodb: table %q row %d: %w", table, row, domain.ErrRowOutOfRange)
	}
	var current rowItem
	if err := attributevalue.UnmarshalMap(got.Item, &current); err != nil {
		return fmt.Errorf("dynamodb: unmarshal row: %w", err)
	}

	var update expression.UpdateBuilder
	if column < len(current.Cells) {
		update = expression.Set(expression.Name("cells["+strconv.Itoa(column)+"]"), expression.Value(value))
	} else {
		update = expression.Set(expression.Name("cells"), expression.Value([]string(domain.SetCell(current.Cells, column, value))))
	}
	expr, err := expression.NewBuilder().
		WithUpdate(update).
		WithCondition(expression.Name("idx").AttributeExists()).
		Build()
	if err != nil {
		return fmt.Errorf("dynamodb: build update: %w", err)
	}
	_, err = s.api.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.table),
		Key:                       key,
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var missing *types.ConditionalCheckFailedException
		if errors.As(err, &missing) {
			return fmt.Errorf("dynamodb: table %q row %d: %w", table, row, domain.ErrRowOutOfRange)
		}
		return fmt.Errorf("dynamodb: update %s/%d: %w", table, row, err)
	}
	return nil
}

func (s *Store) keyExpr(table string) (expression.Expression, error) {
	expr, err := expression.NewBuilder().
		WithKeyCondition(expression.Key("tbl").Equal(expression.Value(table))).
		Build()
	if err != nil {
		return expression.Expression{}, fmt.Errorf("dynamodb: build key condition: %w", err)
	}
	return expr, nil
}

func itemKey(table string, row int) (map[string]types.AttributeValue, error) {
	key, err := attributevalue.MarshalMap(struct {
		Table string `dynamodbav:"tbl"`
		Index int    `dynamodbav:"idx"`
	}{table, row})
	if err != nil {
		return nil, fmt.Errorf("dynamodb: marshal key: %w", err)
	}
	return key, nil
}
