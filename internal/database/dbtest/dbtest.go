// Пакет dbtest — PostgreSQL в Docker для интеграционных тестов casedesk.
// Тесты запускаются только при заданной TEST_INTEGRATION.
package dbtest

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/bigkaa/casedesk/internal/config"
)

const (
	image    = "docker.io/postgres:17-alpine"
	dbName   = "casedesk_test"
	user     = "casedesk"
	password = "test-password"
)

// Config запускает отдельный контейнер PostgreSQL для теста t
// и возвращает конфигурацию подключения к нему. Контейнер
// останавливается по t.Cleanup. Без TEST_INTEGRATION тест пропускается.
func Config(t testing.TB) *config.Config {
	t.Helper()
	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("TEST_INTEGRATION не задана: тест с PostgreSQL пропущен")
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx, image,
		postgres.WithDatabase(dbName),
		postgres.WithUsername(user),
		postgres.WithPassword(password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("запуск PostgreSQL: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("остановка PostgreSQL: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("адрес контейнера: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("порт контейнера: %v", err)
	}
	portNum, err := strconv.Atoi(port.Port())
	if err != nil {
		t.Fatalf("порт контейнера %q: %v", port.Port(), err)
	}

	return &config.Config{
		DBHost:     host,
		DBPort:     portNum,
		DBName:     dbName,
		DBUser:     user,
		DBPassword: password,
		DBSSLMode:  "disable",
	}
}
