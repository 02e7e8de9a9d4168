package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// AsyncHook đưa entry vào channel và ghi ra các writer trong một goroutine riêng.
// Khi buffer đầy, entry bị bỏ qua thay vì block caller.
type AsyncHook struct {
	writers []io.Writer
	entries chan *logrus.Entry
	wg      sync.WaitGroup
	mu      sync.RWMutex
	closed  bool
}

// NewAsyncHook tạo async hook với danh sách writers (mặc định buffer 1000 entries)
func NewAsyncHook(writers []io.Writer, bufferSize int) *AsyncHook {
	if bufferSize <= 0 {
		bufferSize = 1000
	}
	h := &AsyncHook{
		writers: writers,
		entries: make(chan *logrus.Entry, bufferSize),
	}
	h.wg.Add(1)
	go h.run()
	return h
}

// Levels trả về các log levels mà hook này xử lý
func (h *AsyncHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire không block: chỉ đưa bản sao entry vào channel
func (h *AsyncHook) Fire(entry *logrus.Entry) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		// Hook đã đóng: ghi trực tiếp
		h.write(entry)
		return nil
	}

	// Dup không giữ Level/Message/Caller nên phải gán lại
	dup := entry.Dup()
	dup.Level = entry.Level
	dup.Message = entry.Message
	dup.Caller = entry.Caller

	select {
	case h.entries <- dup:
	default:
	}
	return nil
}

func (h *AsyncHook) run() {
	defer h.wg.Done()
	for entry := range h.entries {
		h.write(entry)
	}
}

func (h *AsyncHook) write(entry *logrus.Entry) {
	defer func() {
		if r := recover(); r != nil {
			// Không dùng logger ở đây để tránh vòng lặp
			fmt.Fprintf(os.Stderr, "[LOGGER PANIC] %v\n", r)
		}
	}()

	data, err := entry.Logger.Formatter.Format(entry)
	if err != nil {
		return
	}
	for _, w := range h.writers {
		_, _ = w.Write(data)
	}
}

// Close đóng hook và đợi ghi hết các entry đang chờ
func (h *AsyncHook) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	close(h.entries)
	h.mu.Unlock()

	h.wg.Wait()
	return nil
}

// RedactHook thay giá trị của các field nhạy cảm bằng "***"
type RedactHook struct {
	keys map[string]bool
}

// NewRedactHook tạo hook che các field có tên nằm trong keys (không phân biệt hoa thường)
func NewRedactHook(keys map[string]bool) *RedactHook {
	return &RedactHook{keys: keys}
}

// Levels trả về các log levels mà hook này xử lý
func (h *RedactHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire che giá trị tại chỗ, chạy trước AsyncHook vì được thêm trước
func (h *RedactHook) Fire(entry *logrus.Entry) error {
	for k := range entry.Data {
		if h.keys[strings.ToLower(k)] {
			entry.Data[k] = "***"
		}
	}
	return nil
}
