// loader.go — загрузка списков Dashboard и «Мои сделки» со счётчиками непрочитанных.
package casestore

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bigkaa/casedesk/internal/domain/caselist"
	"github.com/bigkaa/casedesk/internal/domain/datefmt"
	"github.com/bigkaa/casedesk/internal/domain/model"
)

// ErrSuperseded — результат загрузки отброшен: позже начатая загрузка уже применена.
var ErrSuperseded = errors.New("результат загрузки устарел")

// unreadFetchLimit — число одновременных запросов счётчиков непрочитанных.
const unreadFetchLimit = 8

// View — применённое состояние списка.
type View struct {
	Cases  []*model.Case
	Groups []caselist.Group
	// Unread — непрочитанные по ID карточки; отсутствие ключа — счётчик неизвестен
	Unread   map[string]int
	LoadedAt time.Time
}

// Loader загружает список и счётчики непрочитанных и применяет результат целиком.
// Каждой загрузке присваивается порядковый номер: результат загрузки,
// начатой раньше уже применённой, отбрасывается.
type Loader struct {
	client *Client
	mine   bool
	clock  datefmt.Clock
	logger *slog.Logger

	mu        sync.Mutex
	seq       uint64
	committed uint64
	view      *View
}

// NewLoader создаёт загрузчик. mine — «Мои сделки» вместо общего Dashboard.
func NewLoader(client *Client, mine bool, clock datefmt.Clock, logger *slog.Logger) *Loader {
	return &Loader{
		client: client,
		mine:   mine,
		clock:  clock,
		logger: logger.With(slog.String("component", "case_loader")),
		view:   &View{Unread: map[string]int{}},
	}
}

// View возвращает последнее применённое состояние.
func (l *Loader) View() *View {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.view
}

// Load загружает список по запросу. groupByOwner — заполнить View.Groups.
// Ошибка чтения списка логируется, ранее применённое состояние не меняется.
// Ошибка отдельного счётчика оставляет его неизвестным; ErrUnauthenticated прерывает загрузку.
func (l *Loader) Load(ctx context.Context, q caselist.Query, groupByOwner bool) (*View, error) {
	seq := l.nextSeq()

	list, err := l.client.ListCases(ctx, ListOptions{Mine: l.mine, Query: q, GroupByOwner: groupByOwner})
	if err != nil {
		l.logger.Error("Ошибка загрузки списка карточек",
			slog.Uint64("seq", seq),
			slog.String("error", err.Error()),
		)
		return l.View(), err
	}

	counts := make([]int, len(list.Items))
	known := make([]bool, len(list.Items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(unreadFetchLimit)
	for i, c := range list.Items {
		g.Go(func() error {
			n, err := l.client.UnreadCount(gctx, c.ID)
			if errors.Is(err, ErrUnauthenticated) {
				return err
			}
			if err != nil {
				l.logger.Warn("Ошибка получения счётчика непрочитанных",
					slog.String("case_id", c.ID),
					slog.String("error", err.Error()),
				)
				return nil
			}
			counts[i], known[i] = n, true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return l.View(), err
	}

	view := &View{
		Cases:    list.Items,
		Groups:   list.Groups,
		Unread:   make(map[string]int, len(list.Items)),
		LoadedAt: l.clock.Now(),
	}
	for i, c := range list.Items {
		if known[i] {
			view.Unread[c.ID] = counts[i]
		}
	}
	if groupByOwner && view.Groups == nil {
		view.Groups = caselist.GroupByOwner(view.Cases)
	}

	return l.commit(seq, view)
}

func (l *Loader) nextSeq() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	return l.seq
}

// commit применяет view, если более поздняя загрузка ещё не применена.
func (l *Loader) commit(seq uint64, view *View) (*View, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if seq < l.committed {
		l.logger.Debug("Результат загрузки отброшен",
			slog.Uint64("seq", seq),
			slog.Uint64("committed", l.committed),
		)
		return l.view, ErrSuperseded
	}
	l.committed = seq
	l.view = view
	return view, nil
}
