package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	endpoints []string
	statuses  []int
}

func (o *recordingObserver) RecordBackendCall(endpoint string, statusCode int) {
	o.endpoints = append(o.endpoints, endpoint)
	o.statuses = append(o.statuses, statusCode)
}

func TestClient_BearerTokenInjection(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"user":{"id":"u1","name":"Asha"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)

	t.Run("TokenInContext", func(t *testing.T) {
		ctx := WithToken(context.Background(), "tok-123")
		user, err := client.UserDetails(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Bearer tok-123", gotAuth)
		assert.Equal(t, "Asha", user.Name)
	})

	t.Run("NoToken", func(t *testing.T) {
		_, err := client.UserDetails(context.Background())
		require.NoError(t, err)
		assert.Empty(t, gotAuth)
	})
}

func TestClient_UnauthorizedSentinel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.UserDetails(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestClient_ErrorEnvelopeDecoding(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantCode    string
		wantMessage string
	}{
		{
			name:        "DetailsPreferred",
			body:        `{"message":"outer","details":{"code":"customer_details.customer_phone_invalid","message":"phone is invalid"}}`,
			wantCode:    "customer_details.customer_phone_invalid",
			wantMessage: "phone is invalid",
		},
		{
			name:        "MessageFallback",
			body:        `{"message":"insufficient balance"}`,
			wantMessage: "insufficient balance",
		},
		{
			name:        "ErrorFieldFallback",
			body:        `{"error":"event not found"}`,
			wantMessage: "event not found",
		},
		{
			name:        "EmptyBody",
			body:        "",
			wantMessage: "request failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(server.URL)
			_, err := client.UserDetails(context.Background())
			require.Error(t, err)

			apiErr, ok := AsAPIError(err)
			require.True(t, ok)
			assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
			assert.Equal(t, tt.wantCode, apiErr.Code)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
		})
	}
}

func TestClient_CreateOrderGatewayHeaders(t *testing.T) {
	var gotID, gotSecret string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get("x-client-id")
		gotSecret = r.Header.Get("x-client-secret")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"payment_session_id":"sess-1","order_id":"order-1"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	resp, err := client.CreateOrder(context.Background(), CreateOrderRequest{
		CustomerID:  "u1",
		OrderAmount: decimal.NewFromInt(50),
	}, "cf-id", "cf-secret")
	require.NoError(t, err)
	assert.Equal(t, "cf-id", gotID)
	assert.Equal(t, "cf-secret", gotSecret)
	assert.Equal(t, "sess-1", resp.PaymentSessionID)
	assert.Equal(t, "order-1", resp.OrderID)
}

func TestClient_OrderStatusFieldFallback(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "OrderStatusField", body: `{"order_status":"PAID"}`, want: "PAID"},
		{name: "StatusField", body: `{"status":"SUCCESS"}`, want: "SUCCESS"},
		{name: "OrderStatusWins", body: `{"order_status":"FAILED","status":"SUCCESS"}`, want: "FAILED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "order-9", r.URL.Query().Get("order_id"))
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(server.URL)
			status, err := client.OrderStatus(context.Background(), "order-9")
			require.NoError(t, err)
			assert.Equal(t, tt.want, status)
		})
	}
}

func TestClient_ObserverRecordsCalls(t *testing.T) {
	t.Run("EndpointAndStatus", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		observer := &recordingObserver{}
		client := NewClient(server.URL, WithObserver(observer))

		_, err := client.QuizHistory(context.Background())
		assert.Error(t, err)
		require.Len(t, observer.endpoints, 1)
		assert.Equal(t, EndpointQuizHistory, observer.endpoints[0])
		assert.Equal(t, http.StatusInternalServerError, observer.statuses[0])
	})

	t.Run("QueryStringsKeptOutOfLabels", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"order_status":"PAID"}`))
		}))
		defer server.Close()

		observer := &recordingObserver{}
		client := NewClient(server.URL, WithObserver(observer))

		for _, orderID := range []string{"order-1", "order-2", "order-3"} {
			_, err := client.OrderStatus(context.Background(), orderID)
			require.NoError(t, err)
		}

		require.Len(t, observer.endpoints, 3)
		for _, endpoint := range observer.endpoints {
			assert.Equal(t, EndpointOrderStatus, endpoint)
		}
	})

	t.Run("PathIDsKeptOutOfLabels", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"success","data":{"_id":"e1"}}`))
		}))
		defer server.Close()

		observer := &recordingObserver{}
		client := NewClient(server.URL, WithObserver(observer))

		for _, eventID := range []string{"e1", "e2"} {
			_, err := client.EventByID(context.Background(), eventID)
			require.NoError(t, err)
		}

		require.Len(t, observer.endpoints, 2)
		assert.Equal(t, EndpointEvents, observer.endpoints[0])
		assert.Equal(t, EndpointEvents, observer.endpoints[1])
	})
}

func TestClient_EventEnvelopes(t *testing.T) {
	t.Run("EventsStatusRequired", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"error","data":[]}`))
		}))
		defer server.Close()

		client := NewClient(server.URL)
		_, err := client.Events(context.Background())
		assert.Error(t, err)
	})

	t.Run("CreateEventOrderErrorCode", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"error","error":"Already registered","code":"already_registered"}`))
		}))
		defer server.Close()

		client := NewClient(server.URL)
		_, err := client.CreateEventOrder(context.Background(), CreateEventOrderRequest{EventID: "e1"})
		require.Error(t, err)

		apiErr, ok := AsAPIError(err)
		require.True(t, ok)
		assert.Equal(t, "already_registered", apiErr.Code)
		assert.Equal(t, "Already registered", apiErr.Message)
	})
}
