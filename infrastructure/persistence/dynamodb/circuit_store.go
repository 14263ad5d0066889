// Package dynamodb persists circuit documents in a single DynamoDB
// table. Component and connection lists are stored as JSON blobs inside
// the item: they are only ever read and written whole, so there is
// nothing to gain from exploding them into attributes.
package dynamodb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"github.com/Gaushik-Adhiban/Circuit-Simulation/application/ports"
	"github.com/Gaushik-Adhiban/Circuit-Simulation/domain/core/aggregates"
	pkgerrors "github.com/Gaushik-Adhiban/Circuit-Simulation/pkg/errors"
)

// CircuitStore implements ports.CircuitStore on DynamoDB
type CircuitStore struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewCircuitStore creates a new DynamoDB-backed circuit store
func NewCircuitStore(client *dynamodb.Client, tableName string, logger *zap.Logger) *CircuitStore {
	return &CircuitStore{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// circuitItem is the DynamoDB item structure for a circuit
type circuitItem struct {
	PK          string `dynamodbav:"PK"`
	SK          string `dynamodbav:"SK"`
	EntityType  string `dynamodbav:"EntityType"`
	CircuitID   string `dynamodbav:"CircuitID"`
	Name        string `dynamodbav:"Name"`
	Description string `dynamodbav:"Description"`
	Components  string `dynamodbav:"Components"`
	Connections string `dynamodbav:"Connections"`
	Metadata    string `dynamodbav:"Metadata,omitempty"`
	IsPublic    bool   `dynamodbav:"IsPublic"`
	CreatedAt   string `dynamodbav:"CreatedAt"`
	UpdatedAt   string `dynamodbav:"UpdatedAt"`
}

func circuitKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("CIRCUIT#%s", id)},
		"SK": &types.AttributeValueMemberS{Value: "METADATA"},
	}
}

func toItem(doc aggregates.CircuitDocument) (circuitItem, error) {
	components, err := json.Marshal(doc.Components)
	if err != nil {
		return circuitItem{}, fmt.Errorf("failed to marshal components: %w", err)
	}
	connections, err := json.Marshal(doc.Connections)
	if err != nil {
		return circuitItem{}, fmt.Errorf("failed to marshal connections: %w", err)
	}

	item := circuitItem{
		PK:          fmt.Sprintf("CIRCUIT#%s", doc.ID),
		SK:          "METADATA",
		EntityType:  "CIRCUIT",
		CircuitID:   doc.ID,
		Name:        doc.Name,
		Description: doc.Description,
		Components:  string(components),
		Connections: string(connections),
		IsPublic:    doc.IsPublic,
		CreatedAt:   doc.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   doc.UpdatedAt.Format(time.RFC3339),
	}

	if len(doc.Metadata) > 0 {
		metadata, err := json.Marshal(doc.Metadata)
		if err != nil {
			return circuitItem{}, fmt.Errorf("failed to marshal metadata: %w", err)
		}
		item.Metadata = string(metadata)
	}
	return item, nil
}

func fromItem(item circuitItem) (aggregates.CircuitDocument, error) {
	doc := aggregates.CircuitDocument{
		ID:          item.CircuitID,
		Name:        item.Name,
		Description: item.Description,
		IsPublic:    item.IsPublic,
	}

	if err := json.Unmarshal([]byte(item.Components), &doc.Components); err != nil {
		return aggregates.CircuitDocument{}, fmt.Errorf("failed to unmarshal components: %w", err)
	}
	if err := json.Unmarshal([]byte(item.Connections), &doc.Connections); err != nil {
		return aggregates.CircuitDocument{}, fmt.Errorf("failed to unmarshal connections: %w", err)
	}
	if item.Metadata != "" {
		if err := json.Unmarshal([]byte(item.Metadata), &doc.Metadata); err != nil {
			return aggregates.CircuitDocument{}, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}

	if t, err := time.Parse(time.RFC3339, item.CreatedAt); err == nil {
		doc.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339, item.UpdatedAt); err == nil {
		doc.UpdatedAt = t
	}
	return doc, nil
}

// Save upserts a circuit document
func (s *CircuitStore) Save(ctx context.Context, doc aggregates.CircuitDocument) error {
	if doc.ID == "" {
		return pkgerrors.NewValidationError("circuit id is required")
	}

	item, err := toItem(doc)
	if err != nil {
		return pkgerrors.NewDatabaseError("failed to encode circuit", err)
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return pkgerrors.NewDatabaseError("failed to marshal circuit item", err)
	}

	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	}); err != nil {
		s.logger.Error("failed to save circuit",
			zap.Error(err),
			zap.String("circuitID", doc.ID),
		)
		return pkgerrors.NewDatabaseError("failed to save circuit", err)
	}

	s.logger.Debug("circuit saved",
		zap.String("circuitID", doc.ID),
		zap.Int("components", len(doc.Components)),
	)
	return nil
}

// GetByID retrieves a circuit document; NotFound when absent
func (s *CircuitStore) GetByID(ctx context.Context, id string) (aggregates.CircuitDocument, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key:       circuitKey(id),
	})
	if err != nil {
		return aggregates.CircuitDocument{}, pkgerrors.NewDatabaseError("failed to get circuit", err)
	}
	if out.Item == nil {
		return aggregates.CircuitDocument{}, pkgerrors.NewNotFoundError("circuit " + id)
	}

	var item circuitItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return aggregates.CircuitDocument{}, pkgerrors.NewDatabaseError("failed to unmarshal circuit item", err)
	}

	doc, err := fromItem(item)
	if err != nil {
		return aggregates.CircuitDocument{}, pkgerrors.NewDatabaseError("failed to decode circuit", err)
	}
	return doc, nil
}

// List scans for circuit documents matching the filter, newest first
func (s *CircuitStore) List(ctx context.Context, filter ports.ListFilter) ([]aggregates.CircuitDocument, error) {
	cond := expression.Name("EntityType").Equal(expression.Value("CIRCUIT"))
	if filter.PublicOnly {
		cond = cond.And(expression.Name("IsPublic").Equal(expression.Value(true)))
	}

	expr, err := expression.NewBuilder().WithFilter(cond).Build()
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("failed to build list expression", err)
	}

	var docs []aggregates.CircuitDocument
	var lastKey map[string]types.AttributeValue
	for {
		out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:                 aws.String(s.tableName),
			FilterExpression:          expr.Filter(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         lastKey,
		})
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("failed to list circuits", err)
		}

		for _, raw := range out.Items {
			var item circuitItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				s.logger.Warn("skipping undecodable circuit item", zap.Error(err))
				continue
			}
			doc, err := fromItem(item)
			if err != nil {
				s.logger.Warn("skipping corrupt circuit item",
					zap.String("circuitID", item.CircuitID),
					zap.Error(err),
				)
				continue
			}
			docs = append(docs, doc)
		}

		lastKey = out.LastEvaluatedKey
		if lastKey == nil {
			break
		}
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})

	if filter.Skip > 0 {
		if filter.Skip >= len(docs) {
			return []aggregates.CircuitDocument{}, nil
		}
		docs = docs[filter.Skip:]
	}
	if filter.Limit > 0 && filter.Limit < len(docs) {
		docs = docs[:filter.Limit]
	}
	return docs, nil
}

// Delete removes a circuit document; NotFound when absent
func (s *CircuitStore) Delete(ctx context.Context, id string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(s.tableName),
		Key:                 circuitKey(id),
		ConditionExpression: aws.String("attribute_exists(PK)"),
	})
	if err != nil {
		var condFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condFailed) {
			return pkgerrors.NewNotFoundError("circuit " + id)
		}
		return pkgerrors.NewDatabaseError("failed to delete circuit", err)
	}

	s.logger.Debug("circuit deleted", zap.String("circuitID", id))
	return nil
}
