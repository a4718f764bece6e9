package integration

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/yourname/gdrive_lite/internal/config"
	"github.com/yourname/gdrive_lite/internal/models"
	"github.com/yourname/gdrive_lite/internal/notify"
	"github.com/yourname/gdrive_lite/pkg/uploadclient"
)

type progressEnvelope struct {
	Event string               `json:"event"`
	Data  models.ProgressEvent `json:"data"`
}

func Test_UploadProgress_OverWebsocket(t *testing.T) {
	srv, _ := newServer(t, nil)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/socket", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var hello struct {
		Event string `json:"event"`
		Data  struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := conn.ReadJSON(&hello); err != nil {
		t.Fatal(err)
	}
	if hello.Event != notify.EventConnect || hello.Data.ID == "" {
		t.Fatalf("connect message %+v", hello)
	}

	src := fixture(t, "movie.avi", 512<<10)
	cli := uploadclient.New(srv.URL, uploadclient.WithProgress(nil))
	if _, err := cli.Upload(context.Background(), hello.Data.ID, src); err != nil {
		t.Fatalf("upload: %v", err)
	}

	var ev progressEnvelope
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read progress: %v", err)
	}
	if ev.Event != notify.EventFileUpload || ev.Data.Filename != "movie.avi" || ev.Data.ProcessedAlready <= 0 {
		t.Fatalf("progress event %+v", ev)
	}
}

func Test_UploadProgress_OverRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	srv, _ := newServer(t, func(c *config.Config) {
		c.Notifier.Driver = config.DriverRedis
		c.Notifier.RedisAddr = mr.Addr()
	})

	ctx := context.Background()
	sub := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = sub.Close() })
	ps := sub.Subscribe(ctx, "gdrive:sock-7")
	t.Cleanup(func() { _ = ps.Close() })
	if _, err := ps.Receive(ctx); err != nil {
		t.Fatal(err)
	}

	src := fixture(t, "movie.avi", 256<<10)
	cli := uploadclient.New(srv.URL, uploadclient.WithProgress(nil))
	if _, err := cli.Upload(ctx, "sock-7", src); err != nil {
		t.Fatalf("upload: %v", err)
	}

	rctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	msg, err := ps.ReceiveMessage(rctx)
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	var ev progressEnvelope
	if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
		t.Fatal(err)
	}
	if ev.Event != notify.EventFileUpload || ev.Data.Filename != "movie.avi" {
		t.Fatalf("progress event %+v", ev)
	}
}
