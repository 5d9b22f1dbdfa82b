// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package email sends notification mails about new contact submissions.
package email

import (
	"context"
	"fmt"
	"strings"

	"codeberg.org/medportfolio/medportfolio/internal/config"
	"codeberg.org/medportfolio/medportfolio/internal/models"
	"github.com/wneessen/go-mail"
)

// Service sends notification mails via SMTP.
type Service struct {
	cfg     *config.SMTPConfig
	baseURL string
}

// NewService creates a new email service.
func NewService(cfg *config.SMTPConfig, baseURL string) (*Service, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("SMTP from address is required")
	}
	if cfg.NotifyTo == "" {
		return nil, fmt.Errorf("notification recipient is required")
	}

	return &Service{
		cfg:     cfg,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// NotifyNewClient tells the consultant about a new contact submission.
func (s *Service) NotifyNewClient(ctx context.Context, client *models.Client) error {
	msg, err := s.composeNewClient(client)
	if err != nil {
		return err
	}
	return s.send(ctx, msg)
}

func (s *Service) composeNewClient(client *models.Client) (*mail.Msg, error) {
	msg, err := s.newMsg(s.cfg.NotifyTo)
	if err != nil {
		return nil, err
	}

	// Replies go straight to the person who filled in the form.
	if err := msg.ReplyTo(client.Email); err != nil {
		return nil, fmt.Errorf("setting reply-to address: %w", err)
	}

	msg.Subject(fmt.Sprintf("New contact request from %s", client.Name))
	msg.SetBodyString(mail.TypeTextPlain, newClientBody(client, s.baseURL))
	return msg, nil
}

func newClientBody(client *models.Client, baseURL string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "A new contact request was submitted.\n\n")
	fmt.Fprintf(&b, "Name:    %s\n", client.Name)
	fmt.Fprintf(&b, "Email:   %s\n", client.Email)
	if client.Phone != "" {
		fmt.Fprintf(&b, "Phone:   %s\n", client.Phone)
	}
	if client.Address != "" {
		fmt.Fprintf(&b, "Address: %s\n", client.Address)
	}
	if client.ProjectType != "" {
		fmt.Fprintf(&b, "Project: %s\n", client.ProjectType)
	}
	fmt.Fprintf(&b, "\n%s\n\n", client.Message)
	fmt.Fprintf(&b, "Review it in the admin portal: %s/admin-portal\n", baseURL)
	return b.String()
}

func (s *Service) newMsg(to string) (*mail.Msg, error) {
	msg := mail.NewMsg()

	if s.cfg.FromName != "" {
		if err := msg.FromFormat(s.cfg.FromName, s.cfg.From); err != nil {
			return nil, fmt.Errorf("setting from address: %w", err)
		}
	} else {
		if err := msg.From(s.cfg.From); err != nil {
			return nil, fmt.Errorf("setting from address: %w", err)
		}
	}

	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("setting to address: %w", err)
	}

	return msg, nil
}

// send sends an email via SMTP using go-mail.
func (s *Service) send(ctx context.Context, msg *mail.Msg) error {
	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
	}

	// Configure TLS based on config and port
	if s.cfg.TLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
		// Use implicit TLS (SSL) for port 465, STARTTLS for others
		if s.cfg.Port == 465 {
			opts = append(opts, mail.WithSSL())
		}
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	if s.cfg.Username != "" && s.cfg.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}

	client, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("creating mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}

	return nil
}
