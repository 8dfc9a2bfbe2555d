package email

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"stadiumbook/internal/logger"
	"stadiumbook/internal/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	queueKey       = "emails"
	failedQueueKey = "emails:failed"
	maxTries       = 3

	TypeBookingConfirmation = "booking_confirmation"
	TypeBookingCancellation = "booking_cancellation"
)

type EmailJob struct {
	Type    string    `json:"type"`
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

type Options struct {
	From     string
	FromName string
	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	// Location is used to render booking times in messages.
	Location *time.Location
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Service queues outgoing mail in Redis and delivers it over SMTP from a
// background worker.
type Service struct {
	redis      *redis.Client
	opts       Options
	send       sendFunc
	retryDelay time.Duration
}

func New(opts Options, rdb *redis.Client) *Service {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Service{
		redis:      rdb,
		opts:       opts,
		send:       smtp.SendMail,
		retryDelay: 5 * time.Second,
	}
}

func (s *Service) Send(ctx context.Context, emailType, to, name, subject, body string) error {
	job := EmailJob{
		Type:    emailType,
		To:      to,
		Name:    name,
		Subject: subject,
		Body:    body,
		Created: time.Now(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal email job: %w", err)
	}

	if err := s.redis.LPush(ctx, queueKey, string(data)).Err(); err != nil {
		metrics.RecordEmail(emailType, "queue_failed")
		return fmt.Errorf("queue email to %s: %w", to, err)
	}

	logger.Info("email queued", "type", emailType, "to", to)
	return nil
}

// Start runs the delivery worker until ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	logger.Info("email worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("email worker stopped")
			return
		default:
			s.processNext(ctx)
			metrics.SetEmailQueueLength(s.QueueLength(ctx))
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) || ctx.Err() != nil {
			return
		}
		logger.Error("email queue unavailable", "error", err)
		s.wait(ctx)
		return
	}

	var job EmailJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Error("bad email job", "error", err)
		return
	}

	job.Tries++
	if err := s.sendNow(job); err != nil {
		logger.Error("email delivery failed", "to", job.To, "attempt", job.Tries, "error", err)

		if job.Tries < maxTries {
			metrics.RecordEmail(job.Type, "retry")
			s.wait(ctx)
			s.requeue(job)
			return
		}

		metrics.RecordEmail(job.Type, "failed")
		s.saveFailed(job, err)
		return
	}

	metrics.RecordEmail(job.Type, "sent")
	logger.Info("email sent", "type", job.Type, "to", job.To)
}

func (s *Service) wait(ctx context.Context) {
	if s.retryDelay <= 0 {
		return
	}
	t := time.NewTimer(s.retryDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func (s *Service) requeue(job EmailJob) {
	data, err := json.Marshal(job)
	if err == nil {
		err = s.redis.LPush(context.Background(), queueKey, string(data)).Err()
	}
	if err != nil {
		logger.Error("email requeue failed, job dropped", "to", job.To, "type", job.Type, "error", err)
	}
}

// headerSafe folds CR and LF into spaces so a value cannot start a new header.
func headerSafe(v string) string {
	return strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(v)
}

func (s *Service) sendNow(job EmailJob) error {
	message := fmt.Sprintf("From: %s <%s>\r\n", headerSafe(s.opts.FromName), headerSafe(s.opts.From))
	message += fmt.Sprintf("To: %s\r\n", headerSafe(job.To))
	message += fmt.Sprintf("Subject: %s\r\n", headerSafe(job.Subject))
	message += "Content-Type: text/plain; charset=UTF-8\r\n"
	message += "\r\n" + job.Body

	var auth smtp.Auth
	if s.opts.SMTPUser != "" && s.opts.SMTPPass != "" {
		auth = smtp.PlainAuth("", s.opts.SMTPUser, s.opts.SMTPPass, s.opts.SMTPHost)
	}

	addr := s.opts.SMTPHost + ":" + s.opts.SMTPPort
	return s.send(addr, auth, s.opts.From, []string{job.To}, []byte(message))
}

func (s *Service) saveFailed(job EmailJob, err error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": err.Error(),
		"time":  time.Now(),
	}
	data, mErr := json.Marshal(failed)
	if mErr == nil {
		mErr = s.redis.LPush(context.Background(), failedQueueKey, string(data)).Err()
	}
	if mErr != nil {
		logger.Error("email could not be saved to failed queue", "to", job.To, "type", job.Type, "error", mErr)
		return
	}
	logger.Error("email moved to failed queue", "to", job.To, "type", job.Type)
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, queueKey).Result()
	return length
}

func (s *Service) Close() error {
	return s.redis.Close()
}
