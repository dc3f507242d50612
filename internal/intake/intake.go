// Package intake accepts business documents arriving by mail. It runs a
// small SMTP server (postfix content-filter style), extracts the text
// body of each message and feeds it to the router with an email hint.
package intake

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/mail"
	"strings"
	"time"

	"github.com/emersion/go-smtp"
	"github.com/mikey/llm-doc-router/internal/config"
	"github.com/mikey/llm-doc-router/internal/core"
	"go.uber.org/zap"
)

// Server is the SMTP document intake
type Server struct {
	router    *core.RouterService
	logger    *zap.Logger
	allowlist *Allowlist
	cfg       config.IntakeConfig
	server    *smtp.Server
}

// NewServer creates a new SMTP intake server
func NewServer(cfg *config.Config, router *core.RouterService, logger *zap.Logger) *Server {
	intakeCfg := cfg.GetIntake()
	return &Server{
		router:    router,
		logger:    logger,
		allowlist: NewAllowlist(intakeCfg.AllowedDomains, logger),
		cfg:       intakeCfg,
	}
}

// Enabled reports whether the intake is configured to run
func (s *Server) Enabled() bool {
	return s.cfg.Enabled
}

// Start starts the SMTP intake service
func (s *Server) Start() error {
	s.server = smtp.NewServer(&smtpBackend{intake: s})

	s.server.Addr = s.cfg.ListenAddress
	s.server.Domain = s.cfg.Domain
	s.server.ReadTimeout = 30 * time.Second
	s.server.WriteTimeout = 30 * time.Second
	s.server.MaxMessageBytes = int64(s.cfg.MaxMessageBytes)
	s.server.MaxRecipients = 50
	s.server.AllowInsecureAuth = true

	s.logger.Info("SMTP intake starting", zap.String("address", s.cfg.ListenAddress))

	go func() {
		if err := s.server.ListenAndServe(); err != nil {
			if err != smtp.ErrServerClosed {
				s.logger.Error("SMTP server error", zap.Error(err))
			}
		}
	}()

	return nil
}

// Stop stops the SMTP intake service
func (s *Server) Stop() error {
	if s.server != nil {
		return s.server.Close()
	}
	return nil
}

// smtpBackend implements the go-smtp Backend interface
type smtpBackend struct {
	intake *Server
}

// NewSession creates a new SMTP session
func (b *smtpBackend) NewSession(c *smtp.Conn) (smtp.Session, error) {
	return &smtpSession{
		intake:     b.intake,
		recipients: make([]string, 0),
	}, nil
}

// smtpSession implements the go-smtp Session interface
type smtpSession struct {
	intake     *Server
	sender     string
	recipients []string
}

// Reset resets the session state
func (s *smtpSession) Reset() {
	s.sender = ""
	s.recipients = make([]string, 0)
}

// Logout ends the session
func (s *smtpSession) Logout() error {
	return nil
}

// AuthPlain handles PLAIN authentication (not needed for the intake)
func (s *smtpSession) AuthPlain(_, _ string) error {
	return smtp.ErrAuthUnsupported
}

// Mail sets the sender address
func (s *smtpSession) Mail(from string, _ *smtp.MailOptions) error {
	if !s.intake.allowlist.IsAllowed(from) {
		s.intake.logger.Warn("Rejected message from non-allowed domain", zap.String("sender", from))
		return &smtp.SMTPError{
			Code:    550,
			Message: "sender domain not allowed",
		}
	}
	s.sender = from
	return nil
}

// Rcpt adds a recipient
func (s *smtpSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	return nil
}

// Data routes the message body through the document pipeline
func (s *smtpSession) Data(r io.Reader) error {
	rawData, err := io.ReadAll(r)
	if err != nil {
		s.intake.logger.Error("Failed to read message data", zap.Error(err))
		return err
	}

	msg, err := mail.ReadMessage(bytes.NewReader(rawData))
	if err != nil {
		s.intake.logger.Error("Failed to parse email message", zap.Error(err))
		return err
	}

	textContent, err := extractTextFromMessage(msg)
	if err != nil {
		s.intake.logger.Error("Failed to extract text content", zap.Error(err))
		return err
	}

	// Reassemble the routing-relevant headers with the body so the
	// pipeline sees an email-shaped document
	var doc strings.Builder
	fmt.Fprintf(&doc, "From: %s\n", msg.Header.Get("From"))
	fmt.Fprintf(&doc, "To: %s\n", strings.Join(s.recipients, ", "))
	fmt.Fprintf(&doc, "Subject: %s\n\n", msg.Header.Get("Subject"))
	doc.WriteString(textContent)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	result, err := s.intake.router.Process(ctx, doc.String(), core.FormatEmail)
	if err != nil {
		s.intake.logger.Error("Failed to process inbound document",
			zap.Error(err),
			zap.String("sender", s.sender))
		return &smtp.SMTPError{
			Code:    451,
			Message: "document processing failed, try again later",
		}
	}

	s.intake.logger.Info("Inbound document processed",
		zap.String("sender", s.sender),
		zap.String("memory_id", result.MemoryID),
		zap.String("format", result.Classification.Format),
		zap.String("intent", result.Classification.Intent),
		zap.String("processing_agent", result.ProcessingAgent))

	return nil
}
