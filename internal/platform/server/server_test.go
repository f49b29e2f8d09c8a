package server

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/ogurasousui/grpc-employee-records/internal/adapters/grpc/employeev1"
	"github.com/ogurasousui/grpc-employee-records/internal/adapters/repository/memory"
	"github.com/ogurasousui/grpc-employee-records/internal/core/employee"
	"github.com/ogurasousui/grpc-employee-records/internal/platform/config"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func startBufconnServer(t *testing.T) *grpc.ClientConn {
	t.Helper()

	store := memory.NewEmployeeRepository()
	svc := employee.NewService(store, nil, memory.NewTransactionManager(store), employee.WithLogger(zap.NewNop()))
	srv := New("bufnet", svc, zap.NewNop())

	lis := bufconn.Listen(1024 * 1024)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(ctx, lis)
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("failed to dial bufconn: %v", err)
	}

	t.Cleanup(func() {
		_ = conn.Close()
		cancel()
		if err := <-done; err != nil {
			t.Errorf("server stopped with error: %v", err)
		}
	})

	return conn
}

func TestServer_EmployeeRoundTrip(t *testing.T) {
	t.Parallel()

	conn := startBufconnServer(t)
	client := employeev1.NewEmployeeServiceClient(conn)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := structpb.NewStruct(map[string]any{
		"firstName":  "John",
		"lastName":   "Doe",
		"position":   "Engineer",
		"department": "IT",
		"salary":     50000,
	})
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}

	hired, err := client.HireEmployee(ctx, req)
	if err != nil {
		t.Fatalf("HireEmployee returned error: %v", err)
	}
	id := hired.GetFields()["id"].GetStringValue()
	if !employee.IsValidID(id) {
		t.Fatalf("expected uuid id, got %q", id)
	}

	promoted, err := client.PromoteEmployee(ctx, wrapperspb.String(id))
	if err != nil {
		t.Fatalf("PromoteEmployee returned error: %v", err)
	}
	if got := promoted.GetFields()["position"].GetStringValue(); got != "Senior Engineer" {
		t.Fatalf("unexpected position: %s", got)
	}

	raise, _ := structpb.NewStruct(map[string]any{"id": id, "amount": 5000})
	raised, err := client.IncreaseSalary(ctx, raise)
	if err != nil {
		t.Fatalf("IncreaseSalary returned error: %v", err)
	}
	if got := raised.GetFields()["salary"].GetNumberValue(); got != 55000 {
		t.Fatalf("unexpected salary: %v", got)
	}

	if _, err := client.FireEmployee(ctx, wrapperspb.String(id)); err != nil {
		t.Fatalf("FireEmployee returned error: %v", err)
	}
	_, err = client.FireEmployee(ctx, wrapperspb.String(id))
	if st, _ := status.FromError(err); st.Code() != codes.FailedPrecondition || st.Message() != "Employee with id="+id+" is already terminated" {
		t.Fatalf("unexpected second fire result: %v", err)
	}

	list, err := client.GetEmployees(ctx, &emptypb.Empty{})
	if err != nil {
		t.Fatalf("GetEmployees returned error: %v", err)
	}
	if len(list.GetValues()) != 1 {
		t.Fatalf("expected 1 employee, got %d", len(list.GetValues()))
	}

	found, err := client.SearchEmployees(ctx, wrapperspb.String("senior"))
	if err != nil || len(found.GetValues()) != 1 {
		t.Fatalf("unexpected search result: %v %v", found, err)
	}

	if _, err := client.DeleteEmployee(ctx, wrapperspb.String(id)); err != nil {
		t.Fatalf("DeleteEmployee returned error: %v", err)
	}
	_, err = client.GetEmployee(ctx, wrapperspb.String(id))
	if status.Code(err) != codes.NotFound {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestServer_HealthCheck(t *testing.T) {
	t.Parallel()

	conn := startBufconnServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: employeev1.ServiceName})
	if err != nil {
		t.Fatalf("health check returned error: %v", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("expected SERVING, got %v", resp.GetStatus())
	}
}

func TestServer_UpdateValidation(t *testing.T) {
	t.Parallel()

	conn := startBufconnServer(t)
	client := employeev1.NewEmployeeServiceClient(conn)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, _ := structpb.NewStruct(map[string]any{
		"id":       "missing",
		"employee": map[string]any{"firstName": "Jane"},
	})
	_, err := client.UpdateEmployee(ctx, req)
	if st, _ := status.FromError(err); st.Code() != codes.NotFound || st.Message() != "Employee with id=missing does not exist" {
		t.Fatalf("unexpected update result: %v", err)
	}
}

func TestHTTPServer_ServeAndShutdown(t *testing.T) {
	t.Parallel()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	srv := NewHTTP(config.HTTPConfig{
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		ShutdownTimeout: time.Second,
	}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}), zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(ctx, lis)
	}()

	resp, err := http.Get("http://" + lis.Addr().String() + "/")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
