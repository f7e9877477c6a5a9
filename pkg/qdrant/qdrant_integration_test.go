package qdrant

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/docuvec/docuvec/pkg/logger"
	"github.com/docuvec/docuvec/pkg/vectordb"
)

// QdrantContainer represents a Qdrant container for testing
type QdrantContainer struct {
	testcontainers.Container
	Host string
	Port string
}

// setupQdrantContainer sets up a Qdrant container for testing
func setupQdrantContainer(ctx context.Context) (*QdrantContainer, error) {
	port, err := getFreePort()
	if err != nil {
		return nil, fmt.Errorf("could not get free port: %w", err)
	}

	portStr := fmt.Sprintf("%d", port)
	portBindings := nat.PortMap{
		"6334/tcp": []nat.PortBinding{{HostPort: portStr}},
	}

	req := testcontainers.ContainerRequest{
		Image: "qdrant/qdrant:v1.11.0",
		Env: map[string]string{
			"QDRANT__SERVICE__GRPC_PORT": "6334",
		},
		ExposedPorts: []string{"6334/tcp"},
		HostConfigModifier: func(cfg *container.HostConfig) {
			cfg.PortBindings = portBindings
		},
		WaitingFor: wait.ForListeningPort("6334/tcp").WithStartupTimeout(60 * time.Second),
	}

	qdrantContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start qdrant container: %w", err)
	}

	host, err := qdrantContainer.Host(ctx)
	if err != nil {
		_ = qdrantContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get host: %w", err)
	}

	mappedPort, err := qdrantContainer.MappedPort(ctx, "6334")
	if err != nil {
		_ = qdrantContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get mapped port: %w", err)
	}
	portStr = mappedPort.Port()

	if err := waitForQdrantReady(host, portStr, 30*time.Second); err != nil {
		_ = qdrantContainer.Terminate(ctx)
		return nil, fmt.Errorf("qdrant container not ready: %w", err)
	}

	return &QdrantContainer{
		Container: qdrantContainer,
		Host:      host,
		Port:      portStr,
	}, nil
}

// getFreePort gets a free port from the OS
func getFreePort() (int, error) {
	addr, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}
	defer addr.Close()

	return addr.Addr().(*net.TCPAddr).Port, nil
}

// waitForQdrantReady attempts to connect to Qdrant until it's ready or times out
func waitForQdrantReady(host, port string, timeout time.Duration) error {
	startTime := time.Now()
	for {
		if time.Since(startTime) > timeout {
			return fmt.Errorf("timed out waiting for Qdrant to be ready after %s", timeout)
		}

		conn, err := net.DialTimeout("tcp", net.JoinHostPort(host, port), 2*time.Second)
		if err == nil {
			_ = conn.Close()
			// Give the gRPC service a moment after the port opens.
			time.Sleep(2 * time.Second)
			return nil
		}

		time.Sleep(500 * time.Millisecond)
	}
}

func TestQdrantStoreWithFXModule(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	containerInstance, err := setupQdrantContainer(ctx)
	require.NoError(t, err)
	defer func() {
		if err := containerInstance.Terminate(ctx); err != nil {
			t.Fatalf("failed to terminate container: %s", err)
		}
	}()

	t.Logf("Using Qdrant on %s:%s", containerInstance.Host, containerInstance.Port)

	portNum, err := strconv.Atoi(containerInstance.Port)
	require.NoError(t, err)

	var store vectordb.Store

	app := fxtest.New(t,
		fx.Provide(
			func() *Config {
				return &Config{
					Endpoint:  containerInstance.Host,
					Port:      portNum,
					BatchSize: 8,
				}
			},
			func() Logger {
				return logger.NewLoggerClient(logger.Config{Level: logger.Error})
			},
		),
		FXModule,
		fx.Populate(&store),
	)

	err = app.Start(ctx)
	require.NoError(t, err)
	defer app.Stop(ctx)

	require.NotNil(t, store)

	const collection = "documents_it"

	t.Run("EnsureCollectionIsIdempotent", func(t *testing.T) {
		require.NoError(t, store.EnsureCollection(ctx, collection, 2, vectordb.DistanceCosine))
		require.NoError(t, store.EnsureCollection(ctx, collection, 2, vectordb.DistanceCosine))

		info, err := store.GetCollection(ctx, collection)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), info.VectorSize)
		assert.Equal(t, vectordb.DistanceCosine, info.Distance)
	})

	t.Run("EnsureCollectionDetectsSchemaMismatch", func(t *testing.T) {
		err := store.EnsureCollection(ctx, collection, 4, vectordb.DistanceCosine)
		require.ErrorIs(t, err, vectordb.ErrSchemaMismatch)

		err = store.EnsureCollection(ctx, collection, 2, vectordb.DistanceEuclid)
		require.ErrorIs(t, err, vectordb.ErrSchemaMismatch)
	})

	t.Run("UpsertReplacesById", func(t *testing.T) {
		id := uuid.NewString()

		err := store.Upsert(ctx, collection, []vectordb.Entry{
			{ID: id, Vector: []float32{1, 0}, Payload: map[string]any{"text": "first"}},
		})
		require.NoError(t, err)

		err = store.Upsert(ctx, collection, []vectordb.Entry{
			{ID: id, Vector: []float32{0, 1}, Payload: map[string]any{"text": "second"}},
		})
		require.NoError(t, err)

		count, err := store.Count(ctx, collection)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), count)

		results, err := store.Search(ctx, collection, []float32{0, 1}, 1, 0)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, id, results[0].ID)
		assert.Equal(t, "second", results[0].Payload["text"])
	})

	t.Run("EmptyBatchIsNoOp", func(t *testing.T) {
		require.NoError(t, store.Upsert(ctx, collection, nil))
	})

	t.Run("UpsertRejectsWrongDimensions", func(t *testing.T) {
		err := store.Upsert(ctx, collection, []vectordb.Entry{
			{ID: uuid.NewString(), Vector: []float32{1, 0, 0}},
		})
		require.ErrorIs(t, err, vectordb.ErrSchemaMismatch)
	})

	t.Run("SearchRanksNearestFirst", func(t *testing.T) {
		const ranked = "documents_it_ranked"
		require.NoError(t, store.EnsureCollection(ctx, ranked, 2, vectordb.DistanceCosine))

		near := uuid.NewString()
		far := uuid.NewString()
		err := store.Upsert(ctx, ranked, []vectordb.Entry{
			{ID: near, Vector: []float32{1, 0}, Payload: map[string]any{"text": "The sky is blue."}},
			{ID: far, Vector: []float32{0, 1}, Payload: map[string]any{"text": "Water is wet."}},
		})
		require.NoError(t, err)

		results, err := store.Search(ctx, ranked, []float32{0.9, 0.1}, 2, 0)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, near, results[0].ID)
	})

	t.Run("DeleteRemovesById", func(t *testing.T) {
		const scratch = "documents_it_delete"
		require.NoError(t, store.EnsureCollection(ctx, scratch, 2, vectordb.DistanceCosine))

		keep := uuid.NewString()
		drop := uuid.NewString()
		err := store.Upsert(ctx, scratch, []vectordb.Entry{
			{ID: keep, Vector: []float32{1, 0}},
			{ID: drop, Vector: []float32{0, 1}},
		})
		require.NoError(t, err)

		require.NoError(t, store.Delete(ctx, scratch, []string{drop}))

		count, err := store.Count(ctx, scratch)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), count)
	})

	t.Run("GetCollectionMissing", func(t *testing.T) {
		_, err := store.GetCollection(ctx, "does_not_exist")
		require.ErrorIs(t, err, vectordb.ErrCollectionNotFound)
	})
}
