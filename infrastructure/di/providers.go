// Package di wires application dependencies together using google/wire
package di

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"

	"github.com/Gaushik-Adhiban/Circuit-Simulation/application/ports"
	"github.com/Gaushik-Adhiban/Circuit-Simulation/application/services"
	"github.com/Gaushik-Adhiban/Circuit-Simulation/infrastructure/config"
	"github.com/Gaushik-Adhiban/Circuit-Simulation/infrastructure/messaging/eventbridge"
	dynamostore "github.com/Gaushik-Adhiban/Circuit-Simulation/infrastructure/persistence/dynamodb"
	memorystore "github.com/Gaushik-Adhiban/Circuit-Simulation/infrastructure/persistence/memory"
)

// Container holds all application dependencies
type Container struct {
	Config            *config.Config
	Logger            *zap.Logger
	Store             ports.CircuitStore
	EventPublisher    ports.EventPublisher
	CircuitService    *services.CircuitService
	SimulationService *services.SimulationService
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error

	if cfg.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}

	if err != nil {
		return nil, err
	}

	return logger, nil
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCircuitStore selects the storage backend from configuration
func ProvideCircuitStore(cfg *config.Config, client *awsdynamodb.Client, logger *zap.Logger) (ports.CircuitStore, error) {
	switch cfg.StorageDriver {
	case "memory":
		return memorystore.NewCircuitStore(), nil
	case "dynamodb":
		return dynamostore.NewCircuitStore(client, cfg.DynamoDBTable, logger), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// ProvideEventPublisher creates the domain event publisher. Events ride
// along with AWS-backed deployments only; the in-memory store runs
// without a bus.
func ProvideEventPublisher(cfg *config.Config, client *awseventbridge.Client, logger *zap.Logger) ports.EventPublisher {
	if cfg.StorageDriver != "dynamodb" {
		return nil
	}
	return eventbridge.NewPublisher(client, cfg.EventBusName, cfg.EventSource, logger)
}

// ProvideCircuitService creates the circuit CRUD service
func ProvideCircuitService(store ports.CircuitStore, publisher ports.EventPublisher, logger *zap.Logger) *services.CircuitService {
	return services.NewCircuitService(store, publisher, logger)
}

// ProvideSimulationService creates the simulation service
func ProvideSimulationService(logger *zap.Logger) *services.SimulationService {
	return services.NewSimulationService(logger)
}
