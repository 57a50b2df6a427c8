package surreal

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/campusboard/campusboard/backend/internal/storage"
	"github.com/campusboard/campusboard/backend/internal/storage/storagetest"
	"github.com/campusboard/campusboard/shared/config"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var testStorage *Storage

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}
	ctx := context.Background()
	var container testcontainers.Container
	testStorage, container = mustSetup(ctx)

	exitCode := m.Run()
	teardown(ctx, testStorage, container)
	os.Exit(exitCode)
}

func mustSetup(ctx context.Context) (*Storage, testcontainers.Container) {
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "surrealdb/surrealdb:v2.0.4",
			ExposedPorts: []string{"8000/tcp"},
			Cmd:          []string{"start", "--user", "root", "--pass", "root", "memory"},
			WaitingFor:   wait.ForListeningPort("8000/tcp").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		log.Fatalf("failed to start container: %s", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		log.Fatalf("failed to obtain container host: %s", err)
	}
	port, err := container.MappedPort(ctx, "8000/tcp")
	if err != nil {
		log.Fatalf("failed to obtain container port: %s", err)
	}

	cfg := &config.Config{
		Public: config.Public{Surreal: config.SurrealPublic{
			Endpoint:  fmt.Sprintf("ws://%s:%s", host, port.Port()),
			Namespace: "campusboard",
			Database:  "test",
		}},
		Private: config.Private{Surreal: config.SurrealCredentials{User: "root", Password: "root"}},
	}
	s, err := New(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to connect to surrealdb container: %s", err)
	}
	if err := s.Migrate(ctx); err != nil {
		log.Fatalf("failed to migrate: %s", err)
	}
	return s, container
}

func teardown(ctx context.Context, s *Storage, container testcontainers.Container) {
	if err := s.Close(); err != nil {
		log.Printf("failed to close storage connection: %s", err)
	}
	if err := container.Terminate(ctx); err != nil {
		log.Printf("failed to terminate container: %s", err)
	}
}

// truncate empties every table, sequences included.
func truncate(t *testing.T) {
	t.Helper()
	requireStorage(t)
	ctx := context.Background()
	for _, tb := range []string{tableReplies, tablePosts, tableFiles, tableBoards, tableUsers, tableRoles, tableSequence} {
		require.NoError(t, testStorage.exec(ctx, "DELETE type::table($tb)", map[string]any{"tb": tb}))
	}
}

func TestContract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Storage {
		truncate(t)
		return testStorage
	})
}

// requireStorage skips tests that need the container when running with -short.
func requireStorage(t *testing.T) {
	t.Helper()
	if testStorage == nil {
		t.Skip("container tests are skipped in short mode")
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	requireStorage(t)
	require.NoError(t, testStorage.Migrate(context.Background()))
}

func TestPing(t *testing.T) {
	requireStorage(t)
	require.NoError(t, testStorage.Ping(context.Background()))
}
