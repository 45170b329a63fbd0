// Package testing provides helpers for tests that need a Firestore emulator.
package testing

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const (
	emulatorHostEnv   = "FIRESTORE_EMULATOR_HOST"
	clearDataTimeout  = 10 * time.Second
	maxProjectIDChars = 30
)

var ErrEmulatorClearFailed = errors.New("failed to clear emulator data")

// FirestoreEmulator is a client connected to a running Firestore emulator.
type FirestoreEmulator struct {
	Host      string
	ProjectID string
	Client    *firestore.Client
}

// SetupFirestoreEmulator connects to the emulator named by FIRESTORE_EMULATOR_HOST
// using a project ID unique to the test. The test is skipped when the variable is unset.
// The client is closed and the project's data cleared when the test ends.
func SetupFirestoreEmulator(t *testing.T) (*FirestoreEmulator, context.Context) {
	t.Helper()

	host := os.Getenv(emulatorHostEnv)
	if host == "" {
		t.Skipf("%s not set, skipping Firestore emulator test", emulatorHostEnv)
	}

	ctx := context.Background()
	emulator := &FirestoreEmulator{
		Host:      host,
		ProjectID: generateUniqueProjectID(),
	}

	client, err := emulator.createClient(ctx)
	if err != nil {
		t.Fatalf("Failed to create Firestore client: %v", err)
	}
	emulator.Client = client

	t.Cleanup(func() {
		if err := emulator.ClearData(context.Background()); err != nil {
			t.Logf("Warning: %v", err)
		}
		_ = client.Close()
	})

	return emulator, ctx
}

// generateUniqueProjectID returns a project ID valid for GCP and unique per test run.
func generateUniqueProjectID() string {
	// #nosec G404 -- Isolation only, not security sensitive
	suffix := rand.New(rand.NewSource(time.Now().UnixNano())).Intn(1000)
	projectID := fmt.Sprintf("test-%d-%d", time.Now().Unix(), suffix)
	if len(projectID) > maxProjectIDChars {
		projectID = fmt.Sprintf("test-%d-%d", time.Now().Unix()%1000000, suffix)
	}
	return projectID
}

func (e *FirestoreEmulator) createClient(ctx context.Context) (*firestore.Client, error) {
	conn, err := grpc.Dial(e.Host, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
	}

	client, err := firestore.NewClient(ctx, e.ProjectID, option.WithGRPCConn(conn))
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	return client, nil
}

// ClearData deletes every document in the emulator project.
func (e *FirestoreEmulator) ClearData(ctx context.Context) error {
	url := fmt.Sprintf("http://%s/emulator/v1/projects/%s/databases/(default)/documents", e.Host, e.ProjectID)

	timeoutCtx, cancel := context.WithTimeout(ctx, clearDataTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create clear data request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEmulatorClearFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	// A fresh project may not exist yet
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("%w: status %d", ErrEmulatorClearFailed, resp.StatusCode)
	}

	return nil
}
