//go:build integration

// Package testutils provides shared test infrastructure for integration tests.
package testutils

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Archive defines a test archive served by the container.
type Archive struct {
	Name string
	Data []byte
}

// ArchiveServerEnv contains connection information for a containerized
// archive server.
type ArchiveServerEnv struct {
	Container testcontainers.Container

	// BaseURL is the host-reachable root of the served files.
	BaseURL string
}

// Close terminates the archive server container.
func (e *ArchiveServerEnv) Close(ctx context.Context) error {
	if e.Container != nil {
		return e.Container.Terminate(ctx)
	}
	return nil
}

// StartArchiveServer starts an nginx container serving the given
// archives as static files.
func StartArchiveServer(t *testing.T, ctx context.Context, archives []Archive) *ArchiveServerEnv {
	t.Helper()

	// Stage the files on the host so they can be copied into the container.
	stageDir := t.TempDir()
	var files []testcontainers.ContainerFile
	for _, a := range archives {
		hostPath := filepath.Join(stageDir, a.Name)
		if err := os.WriteFile(hostPath, a.Data, 0644); err != nil {
			t.Fatalf("stage archive %s: %v", a.Name, err)
		}
		files = append(files, testcontainers.ContainerFile{
			HostFilePath:      hostPath,
			ContainerFilePath: "/usr/share/nginx/html/" + a.Name,
			FileMode:          0644,
		})
	}

	req := testcontainers.ContainerRequest{
		Image:        "nginx:alpine",
		ExposedPorts: []string{"80/tcp"},
		Files:        files,
		WaitingFor: wait.ForHTTP("/" + archives[0].Name).
			WithPort("80/tcp").
			WithStatusCodeMatcher(func(status int) bool { return status == http.StatusOK }).
			WithStartupTimeout(time.Minute),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("start archive server container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("get container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "80")
	if err != nil {
		t.Fatalf("get container port: %v", err)
	}

	return &ArchiveServerEnv{
		Container: container,
		BaseURL:   fmt.Sprintf("http://%s:%s", host, port.Port()),
	}
}
