package dc

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"AncientWarfare/internal/battle/app/port"
	"AncientWarfare/internal/battle/entity"
	"AncientWarfare/modules/kit/logx"
)

const (
	DefaultFlushEvery = 3 * time.Second
	saveTimeout       = 5 * time.Second
	retryBackoff      = 200 * time.Millisecond
	// 关闭阶段最多重试次数，之后放弃并记错误日志
	finalRetries = 3
)

var errNilRepo = errors.New("battle repository is nil")

// BattleDC 是单场战斗的写回缓存：actor 线程生成快照，后台 writer 只保存最新版本。
type BattleDC struct {
	repo       port.BattleRepository
	entity     *entity.Battle
	flushEvery time.Duration
	log        logx.Logger

	mu      sync.Mutex
	pending *entity.BattleSnapshot
	version uint64
	closed  bool

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

func NewBattleDC(repo port.BattleRepository, flushEvery time.Duration, log logx.Logger) *BattleDC {
	if flushEvery <= 0 {
		flushEvery = DefaultFlushEvery
	}
	d := &BattleDC{
		repo:       repo,
		flushEvery: flushEvery,
		log:        log,
		wake:       make(chan struct{}, 1),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	go d.writerLoop()
	return d
}

func (d *BattleDC) Load(ctx context.Context, id entity.BattleID) (*entity.Battle, error) {
	if d.repo == nil {
		return nil, errNilRepo
	}
	b, err := d.repo.LoadBattle(ctx, id)
	if err != nil {
		return nil, err
	}
	d.adopt(b)
	return b, nil
}

// Adopt 接管一场新建的战斗。
func (d *BattleDC) Adopt(b *entity.Battle) {
	d.adopt(b)
}

// adopt 从实体已有的快照版本继续编号，仓储只接受更高的版本。
func (d *BattleDC) adopt(b *entity.Battle) {
	d.mu.Lock()
	d.version = b.Version()
	d.mu.Unlock()
	d.entity = b
}

// Flush 把当前脏状态排进写队列，不等待落库。
func (d *BattleDC) Flush(ctx context.Context) error {
	if !d.IsDirty() {
		return nil
	}
	if d.repo == nil {
		return errNilRepo
	}
	s, ok := d.buildNextSnapshot()
	if !ok {
		return nil
	}
	d.enqueueLatest(s)
	return nil
}

func (d *BattleDC) IsDirty() bool {
	if d.entity == nil {
		return false
	}
	return d.entity.Dirty()
}

func (d *BattleDC) Entity() *entity.Battle {
	return d.entity
}

func (d *BattleDC) FlushEvery() time.Duration {
	return d.flushEvery
}

// Close 排入最后一次快照并等待 writer 写完。
func (d *BattleDC) Close(ctx context.Context) error {
	_ = d.Flush(ctx)

	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.stop)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *BattleDC) buildNextSnapshot() (*entity.BattleSnapshot, bool) {
	if d.entity == nil {
		return nil, false
	}
	d.mu.Lock()
	d.version++
	version := d.version
	d.mu.Unlock()

	s, ok := d.entity.BuildSnapshot(version)
	if !ok {
		return nil, false
	}
	d.entity.ClearDirty()
	return s, true
}

func (d *BattleDC) enqueueLatest(s *entity.BattleSnapshot) {
	if s == nil {
		return
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	if d.pending == nil || d.pending.Version < s.Version {
		d.pending = s
	}
	d.mu.Unlock()

	d.signal()
}

func (d *BattleDC) popPending() *entity.BattleSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.pending
	d.pending = nil
	return s
}

// requeueOnError 在关闭后也会重排，Close 要等最后一份快照写成功或 ctx 到期。
func (d *BattleDC) requeueOnError(s *entity.BattleSnapshot) {
	d.mu.Lock()
	if d.pending == nil || d.pending.Version < s.Version {
		d.pending = s
	}
	d.mu.Unlock()

	d.signal()
}

func (d *BattleDC) signal() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *BattleDC) writerLoop() {
	defer close(d.done)

	for {
		select {
		case <-d.wake:
			d.consumePending(false)
		case <-d.stop:
			d.consumePending(true)
			return
		}
	}
}

// consumePending 写完队列为止。运行期无限重试，遇到 stop 交给最后一轮；
// 最后一轮只重试 finalRetries 次。
func (d *BattleDC) consumePending(final bool) {
	failures := 0
	for {
		s := d.popPending()
		if s == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		err := d.repo.Save(ctx, s)
		cancel()
		if err == nil {
			failures = 0
			continue
		}
		failures++
		if final && failures > finalRetries {
			d.logSaveError("battle snapshot dropped on close", s, err)
			return
		}
		d.logSaveError("battle snapshot save failed", s, err)
		// 若已有更新快照，会被更高 version 覆盖。
		d.requeueOnError(s)
		if final {
			time.Sleep(retryBackoff)
			continue
		}
		select {
		case <-time.After(retryBackoff):
		case <-d.stop:
			return
		}
	}
}

func (d *BattleDC) logSaveError(msg string, s *entity.BattleSnapshot, err error) {
	if d.log == nil {
		return
	}
	d.log.Error(msg,
		zap.String("battle_id", string(s.ID)),
		zap.Uint64("version", s.Version),
		zap.Error(err))
}
