package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/yourname/gdrive_lite/internal/models"
)

const publishTimeout = 500 * time.Millisecond

type redisMsg struct {
	channel string
	payload []byte
}

// Redis публикует события в канал <prefix><channel>; подписчики живут в других процессах.
// Emit только ставит сообщение в очередь, Publish выполняет отдельная горутина.
type Redis struct {
	client *redis.Client
	prefix string

	queue chan redisMsg
	done  chan struct{}
	wg    sync.WaitGroup
	once  sync.Once
}

func NewRedis(client *redis.Client, prefix string) *Redis {
	r := &Redis{
		client: client,
		prefix: prefix,
		queue:  make(chan redisMsg, defaultQueue),
		done:   make(chan struct{}),
	}

	r.wg.Add(1)
	go r.publishLoop()

	return r
}

// DialRedis создаёт клиента и проверяет соединение.
func DialRedis(ctx context.Context, addr, prefix string) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0,
		// без этого go-redis ждёт ReadTimeout, а не дедлайн контекста
		ContextTimeoutEnabled: true,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}

	return NewRedis(client, prefix), nil
}

// Emit не ждёт Redis: при полной очереди или после Close событие теряется с ошибкой.
func (r *Redis) Emit(ctx context.Context, channel, event string, payload any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := encode(event, payload)
	if err != nil {
		return fmt.Errorf("%w: %w", models.ErrNotificationDelivery, err)
	}

	select {
	case <-r.done:
		return fmt.Errorf("%w: redis notifier closed", models.ErrNotificationDelivery)
	default:
	}

	select {
	case r.queue <- redisMsg{channel: r.prefix + channel, payload: msg}:
		return nil
	default:
		return fmt.Errorf("%w: redis queue full", models.ErrNotificationDelivery)
	}
}

func (r *Redis) publishLoop() {
	defer r.wg.Done()
	for {
		select {
		case m := <-r.queue:
			ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
			if err := r.client.Publish(ctx, m.channel, m.payload).Err(); err != nil {
				slog.Debug("redis publish dropped", "channel", m.channel, "error", err)
			}
			cancel()
		case <-r.done:
			return
		}
	}
}

// Channel возвращает имя redis-канала для сокета.
func (r *Redis) Channel(socketID string) string { return r.prefix + socketID }

// Close останавливает публикацию; неотправленные события теряются.
func (r *Redis) Close() error {
	var err error
	r.once.Do(func() {
		close(r.done)
		err = r.client.Close()
		r.wg.Wait()
	})
	return err
}
