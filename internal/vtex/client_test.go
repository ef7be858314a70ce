package vtex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chlsync/internal/config"
)

// fakeOMS serves a paginated order list plus per-order details, two orders
// per page.
func fakeOMS(t *testing.T, pages int, failDetail string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/oms/pvt/orders", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-vtex-api-appkey") != "key" || r.Header.Get("x-vtex-api-apptoken") != "token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Query().Get("f_creationDate") == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page < 1 || page > pages {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		resp := map[string]interface{}{
			"list": []map[string]string{
				{"orderId": fmt.Sprintf("ORD-%d-1", page)},
				{"orderId": fmt.Sprintf("ORD-%d-2", page)},
			},
			"paging": map[string]int{"currentPage": page, "pages": pages},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})
	mux.HandleFunc("/api/oms/pvt/orders/", func(w http.ResponseWriter, r *http.Request) {
		orderID := r.URL.Path[len("/api/oms/pvt/orders/"):]
		if orderID == failDetail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		resp := map[string]interface{}{
			"orderId":      orderID,
			"creationDate": "2021-03-04T10:15:30.0000000+00:00",
			"items":        []map[string]interface{}{{"ean": "750123", "quantity": 1, "price": 1000}},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})

	return httptest.NewServer(mux)
}

func clientFor(server *httptest.Server) *Client {
	return NewClient(config.VTEXConfig{
		ListEndpoint:   server.URL + "/api/oms/pvt/orders",
		OrderEndpoint:  server.URL + "/api/oms/pvt/orders/",
		AppKey:         "key",
		AppToken:       "token",
		TimeoutSeconds: 5,
	})
}

func TestFetchOrders_AllPagesInOrder(t *testing.T) {
	server := fakeOMS(t, 3, "")
	defer server.Close()

	orders, err := clientFor(server).FetchOrders(context.Background(), DefaultWindow(time.Now()), 1)
	require.NoError(t, err)
	require.Len(t, orders, 6)

	var ids []string
	for _, o := range orders {
		ids = append(ids, o.OrderID)
	}
	assert.Equal(t, []string{"ORD-1-1", "ORD-1-2", "ORD-2-1", "ORD-2-2", "ORD-3-1", "ORD-3-2"}, ids)
}

func TestFetchOrders_KeepsRawBody(t *testing.T) {
	server := fakeOMS(t, 1, "")
	defer server.Close()

	orders, err := clientFor(server).FetchOrders(context.Background(), DefaultWindow(time.Now()), 0)
	require.NoError(t, err)
	require.Len(t, orders, 2)

	assert.JSONEq(t, `{
		"orderId": "ORD-1-1",
		"creationDate": "2021-03-04T10:15:30.0000000+00:00",
		"items": [{"ean": "750123", "quantity": 1, "price": 1000}]
	}`, string(orders[0].Raw))
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, int64(1000), orders[0].Items[0].Price)
}

func TestFetchOrders_DetailFailureAbortsWithNoPartialResult(t *testing.T) {
	server := fakeOMS(t, 2, "ORD-2-1")
	defer server.Close()

	orders, err := clientFor(server).FetchOrders(context.Background(), DefaultWindow(time.Now()), 1)
	assert.ErrorContains(t, err, "ORD-2-1")
	assert.Nil(t, orders)
}

func TestTimeWindow_Filter(t *testing.T) {
	w := TimeWindow{
		From: time.Date(2016, 1, 1, 2, 0, 0, 0, time.UTC),
		To:   time.Date(2021, 1, 1, 1, 59, 59, 999000000, time.UTC),
	}
	assert.Equal(t, "creationDate:[2016-01-01T02:00:00.000Z TO 2021-01-01T01:59:59.999Z]", w.Filter())
}

func TestDefaultWindow_LastHour(t *testing.T) {
	now := time.Date(2021, 3, 4, 10, 0, 0, 0, time.UTC)
	w := DefaultWindow(now)
	assert.Equal(t, now.Add(-time.Hour), w.From)
	assert.Equal(t, now, w.To)
}
