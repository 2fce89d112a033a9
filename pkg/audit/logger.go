package audit

import (
	"context"
	"unicode/utf8"

	"github.com/locallibrary/catalog/pkg/models"
	"github.com/robinjoseph08/golib/logger"
	"github.com/segmentio/encoding/json"
)

const maxDataValueLen = 1024

// redactedKeys are dropped from every audit payload. Book summaries are
// omitted because of their size.
var redactedKeys = map[string]struct{}{
	"summary":       {},
	"password":      {},
	"password2":     {},
	"password_hash": {},
}

// Logger records catalog changes to the audit_logs table and mirrors them to
// the application log.
type Logger struct {
	service *Service
}

func NewLogger(svc *Service) *Logger {
	return &Logger{svc}
}

// Record appends one change record. It never fails: a write error is logged
// as a warning and the calling workflow carries on.
func (l *Logger) Record(ctx context.Context, category, operation string, record interface{}) {
	log := logger.FromContext(ctx)
	data := Payload(record)

	log.Info("catalog change", logger.Data{
		"category":  category,
		"operation": operation,
		"record":    data,
	})

	auditLog := &models.AuditLog{
		Category: category,
		Message:  operation,
	}
	if data != nil {
		if b, err := json.Marshal(data); err == nil {
			s := string(b)
			auditLog.Data = &s
		}
	}

	if err := l.service.CreateAuditLog(context.WithoutCancel(ctx), auditLog); err != nil {
		log.Err(err).Warn("failed to write audit log", logger.Data{"category": category, "operation": operation})
	}
}

// Payload converts record to its JSON object form with redacted keys removed
// and long strings truncated.
func Payload(record interface{}) map[string]interface{} {
	if record == nil {
		return nil
	}
	b, err := json.Marshal(record)
	if err != nil {
		return nil
	}
	var out map[string]interface{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil
	}
	return scrub(out)
}

func scrub(m map[string]interface{}) map[string]interface{} {
	for k, v := range m {
		if _, ok := redactedKeys[k]; ok {
			delete(m, k)
			continue
		}
		switch val := v.(type) {
		case string:
			m[k] = truncateMiddle(val, maxDataValueLen)
		case map[string]interface{}:
			m[k] = scrub(val)
		case []interface{}:
			for i, item := range val {
				if nested, ok := item.(map[string]interface{}); ok {
					val[i] = scrub(nested)
				}
			}
		}
	}
	return m
}

// truncateMiddle counts and cuts in runes so multi-byte text stays valid UTF-8.
func truncateMiddle(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	half := (maxLen - 5) / 2
	return string(runes[:half]) + " ... " + string(runes[len(runes)-half:])
}
