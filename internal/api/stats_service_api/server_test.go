package stats_service_api

import (
	"context"
	"net"
	"testing"

	"github.com/Domenick1991/flightroutes/internal/domain"
	"github.com/Domenick1991/flightroutes/internal/presentation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

type MockDatasetUseCase struct {
	mock.Mock
}

func (m *MockDatasetUseCase) Dataset(ctx context.Context) (*domain.Dataset, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dataset), args.Error(1)
}

func (m *MockDatasetUseCase) Refresh(ctx context.Context) (*domain.Dataset, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dataset), args.Error(1)
}

func testDataset() *domain.Dataset {
	return &domain.Dataset{
		Source: domain.SourceCSV,
		Records: []domain.RouteRecord{
			{Route: "R1", From: "A", To: "B", FromCountry: "X", Year: 2020, Type: "A", Passengers: 10},
			{Route: "R2", From: "C", To: "D", FromCountry: "Y", Year: 2020, Type: "A", Passengers: 20},
			{Route: "R3", From: "E", To: "F", FromCountry: "X", Year: 2021, Type: "B", Passengers: 5},
		},
	}
}

func newClient(t *testing.T, uc *MockDatasetUseCase) StatsServiceClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	RegisterStatsServiceServer(srv, NewServer(presentation.NewBuilder(uc, 10, 5)))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return NewStatsServiceClient(conn)
}

func TestServer_Summary(t *testing.T) {
	uc := &MockDatasetUseCase{}
	uc.On("Dataset", mock.Anything).Return(testDataset(), nil)
	client := newClient(t, uc)

	req, err := structpb.NewStruct(map[string]interface{}{
		"years": []interface{}{2020},
		"types": []interface{}{"A"},
	})
	require.NoError(t, err)

	resp, err := client.Summary(context.Background(), req)
	require.NoError(t, err)

	fields := resp.GetFields()
	assert.Equal(t, 30.0, fields["total_passengers"].GetNumberValue())
	assert.Equal(t, 2.0, fields["total_routes"].GetNumberValue())
	assert.Equal(t, "Y", fields["top_origin_country"].GetStringValue())
	assert.Equal(t, "csv", fields["source"].GetStringValue())
}

func TestServer_Summary_EmptyYears(t *testing.T) {
	uc := &MockDatasetUseCase{}
	uc.On("Dataset", mock.Anything).Return(testDataset(), nil)
	client := newClient(t, uc)

	req, err := structpb.NewStruct(map[string]interface{}{"years": []interface{}{}})
	require.NoError(t, err)

	resp, err := client.Summary(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 0.0, resp.GetFields()["total_passengers"].GetNumberValue())
	assert.Equal(t, presentation.NoDataLabel, resp.GetFields()["top_origin_country"].GetStringValue())
}

func TestServer_TopRoutes(t *testing.T) {
	uc := &MockDatasetUseCase{}
	uc.On("Dataset", mock.Anything).Return(testDataset(), nil)
	client := newClient(t, uc)

	req, err := structpb.NewStruct(map[string]interface{}{"n": 2})
	require.NoError(t, err)

	resp, err := client.TopRoutes(context.Background(), req)
	require.NoError(t, err)

	routes := resp.GetFields()["routes"].GetListValue().GetValues()
	require.Len(t, routes, 2)
	assert.Equal(t, "R2", routes[0].GetStructValue().GetFields()["route"].GetStringValue())
	assert.Equal(t, "R1", routes[1].GetStructValue().GetFields()["route"].GetStringValue())
}

func TestServer_TopRoutes_InvalidN(t *testing.T) {
	uc := &MockDatasetUseCase{}
	client := newClient(t, uc)

	req, err := structpb.NewStruct(map[string]interface{}{"n": 1.5})
	require.NoError(t, err)

	_, err = client.TopRoutes(context.Background(), req)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestServer_Unavailable(t *testing.T) {
	uc := &MockDatasetUseCase{}
	uc.On("Dataset", mock.Anything).Return(nil, domain.ErrDataUnavailable)
	client := newClient(t, uc)

	_, err := client.Summary(context.Background(), &structpb.Struct{})
	assert.Equal(t, codes.Unavailable, status.Code(err))
}

func TestServer_InvalidYears(t *testing.T) {
	uc := &MockDatasetUseCase{}
	uc.On("Dataset", mock.Anything).Return(testDataset(), nil)
	client := newClient(t, uc)

	req, err := structpb.NewStruct(map[string]interface{}{"years": []interface{}{"2020"}})
	require.NoError(t, err)

	_, err = client.Summary(context.Background(), req)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}
