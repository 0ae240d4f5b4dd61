// Пакет session — сохранённое состояние клиента casedesk:
// учётные данные (bearer-токен) и тема оформления.
// Состояние хранится в одном файле, зашифрованном AES-256-GCM.
// Срок действия токена на клиенте не отслеживается: отказ сервера (401)
// приводит к вызову Clear.
package session

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrInvalidTheme — неизвестная тема оформления.
var ErrInvalidTheme = errors.New("неизвестная тема оформления")

// Theme — тема оформления клиента.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme разбирает имя темы (без учёта регистра).
func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	}
	return "", fmt.Errorf("%w: %q (допустимо: light, dark)", ErrInvalidTheme, s)
}

// state — содержимое файла сессии до шифрования.
type state struct {
	Token string `json:"token,omitempty"`
	Theme Theme  `json:"theme"`
}

// Store — сохранённое состояние клиента. Безопасен для конкурентного использования.
type Store struct {
	mu        sync.RWMutex
	path      string
	gcm       cipher.AEAD
	st        state
	discarded bool
}

// Open загружает состояние из файла path.
// key — ключ шифрования (base64 32 байта или произвольная строка, хешируемая SHA-256);
// пустой key — ключ читается из path+".key" или генерируется при первом запуске.
// Отсутствующий файл — пустая сессия со светлой темой. Файл, который не удалось
// расшифровать, отбрасывается (см. Discarded).
func Open(path, key string) (*Store, error) {
	keyBytes, err := resolveKey(path, key)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания AES cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания GCM: %w", err)
	}

	s := &Store{path: path, gcm: gcm, st: state{Theme: ThemeLight}}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("чтение файла сессии: %w", err)
	}

	st, err := s.decrypt(raw)
	if err != nil {
		s.discarded = true
		return s, nil
	}
	if _, err := ParseTheme(string(st.Theme)); err != nil {
		st.Theme = ThemeLight
	}
	s.st = st
	return s, nil
}

// Path возвращает путь файла сессии.
func (s *Store) Path() string {
	return s.path
}

// Discarded сообщает, что существующий файл сессии не удалось прочитать
// и состояние начато заново.
func (s *Store) Discarded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.discarded
}

// Token возвращает сохранённый токен ("" — не выполнен вход).
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.Token
}

// SetToken сохраняет токен.
func (s *Store) SetToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("пустой токен")
	}
	return s.update(func(st *state) { st.Token = token })
}

// Clear удаляет учётные данные; тема сохраняется.
func (s *Store) Clear() error {
	return s.update(func(st *state) { st.Token = "" })
}

// Theme возвращает тему оформления.
func (s *Store) Theme() Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.Theme
}

// SetTheme сохраняет тему оформления.
func (s *Store) SetTheme(t Theme) error {
	if _, err := ParseTheme(string(t)); err != nil {
		return err
	}
	return s.update(func(st *state) { st.Theme = t })
}

// update меняет состояние и записывает файл под одной блокировкой.
// При ошибке записи состояние в памяти не меняется.
func (s *Store) update(fn func(*state)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.st
	fn(&next)
	if err := s.write(next); err != nil {
		return err
	}
	s.st = next
	s.discarded = false
	return nil
}

func (s *Store) write(st state) error {
	plaintext, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("ошибка сериализации сессии: %w", err)
	}

	nonce := make([]byte, s.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("ошибка генерации nonce: %w", err)
	}
	ciphertext := s.gcm.Seal(nonce, nonce, plaintext, nil)

	return writeFileAtomic(s.path, []byte(base64.URLEncoding.EncodeToString(ciphertext)))
}

func (s *Store) decrypt(raw []byte) (state, error) {
	ciphertext, err := base64.URLEncoding.DecodeString(strings.TrimSpace(string(raw)))
	if err != nil {
		return state{}, fmt.Errorf("ошибка декодирования base64: %w", err)
	}
	nonceSize := s.gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return state{}, errors.New("зашифрованные данные слишком короткие")
	}

	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]
	plaintext, err := s.gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return state{}, fmt.Errorf("ошибка дешифрования сессии: %w", err)
	}

	var st state
	if err := json.Unmarshal(plaintext, &st); err != nil {
		return state{}, fmt.Errorf("ошибка десериализации сессии: %w", err)
	}
	return st, nil
}

// resolveKey возвращает 32-байтовый ключ AES-256.
func resolveKey(path, key string) ([]byte, error) {
	if key == "" {
		var err error
		if key, err = loadOrCreateKeyFile(path + ".key"); err != nil {
			return nil, err
		}
	}
	keyBytes, err := base64.StdEncoding.DecodeString(key)
	if err != nil || len(keyBytes) != 32 {
		h := sha256.Sum256([]byte(key))
		keyBytes = h[:]
	}
	return keyBytes, nil
}

func loadOrCreateKeyFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err == nil {
		return strings.TrimSpace(string(raw)), nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("чтение ключа сессии: %w", err)
	}

	keyBytes := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, keyBytes); err != nil {
		return "", fmt.Errorf("ошибка генерации ключа сессии: %w", err)
	}
	key := base64.StdEncoding.EncodeToString(keyBytes)
	if err := writeFileAtomic(path, []byte(key)); err != nil {
		return "", err
	}
	return key, nil
}

// writeFileAtomic пишет файл с правами 0600 через временный файл и rename.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("создание каталога %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("создание временного файла: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("права временного файла: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("запись %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("запись %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("замена %s: %w", path, err)
	}
	return nil
}
