package billboard

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jhoicas/Estore-api/internal/domain/entity"
)

func dial(t *testing.T, srvURL string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srvURL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func readItems(t *testing.T, conn *websocket.Conn) []Item {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var items []Item
	require.NoError(t, json.Unmarshal(data, &items))
	return items
}

func TestHub_SnapshotYBroadcast(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub := NewHub(nil)
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()
	defer hub.Close()

	require.NoError(t, hub.Publish([]*entity.Product{
		{Name: "Pixel", ImageURL: "https://img/pixel.png", SellingPrice: decimal.RequireFromString("499.90")},
	}))

	conn := dial(t, srv.URL)
	defer conn.Close()

	items := readItems(t, conn)
	require.Len(t, items, 1, "el cliente nuevo recibe el último ranking")
	assert.Equal(t, "Pixel", items[0].Name)
	assert.Equal(t, "https://img/pixel.png", items[0].ImageURL)
	assert.True(t, items[0].SellingPrice.Equal(decimal.RequireFromString("499.9")))
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Publish([]*entity.Product{{Name: "Case"}, {Name: "Pixel"}}))
	items = readItems(t, conn)
	require.Len(t, items, 2)
	assert.Equal(t, "Case", items[0].Name)
}

func TestHub_FormatoJSON(t *testing.T) {
	hub := NewHub(nil)
	require.NoError(t, hub.Publish([]*entity.Product{{Name: "Go book", SellingPrice: decimal.NewFromInt(30)}}))
	var raw []map[string]any
	require.NoError(t, json.Unmarshal(hub.snapshot, &raw))
	require.Len(t, raw, 1)
	assert.Contains(t, raw[0], "imageUrl")
	assert.Contains(t, raw[0], "name")
	assert.Contains(t, raw[0], "sellingPrice")
}

func TestHub_CloseDesconectaClientes(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub := NewHub(nil)
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	conn := dial(t, srv.URL)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	hub.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
	assert.Equal(t, 0, hub.Clients())
}
