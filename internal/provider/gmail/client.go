package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/julianvz/mailterm/internal/domain"
	"github.com/julianvz/mailterm/internal/provider"
	"github.com/julianvz/mailterm/internal/store"
)

const userID = "me"

// metadataHeaders are the headers requested for list views; full bodies
// are fetched only when a message is opened.
var metadataHeaders = []string{"Subject", "From", "To", "Date"}

// Provider implements provider.MailProvider against the Gmail REST API.
type Provider struct {
	tokenStore *store.KeyringTokenStore
	service    *gmailapi.Service
	token      *oauth2.Token
}

// New creates a new Gmail provider backed by the given token store.
func New(tokenStore *store.KeyringTokenStore) *Provider {
	return &Provider{tokenStore: tokenStore}
}

// Authenticate runs the OAuth2 flow, saves the token, and initializes
// the Gmail service.
func (p *Provider) Authenticate(ctx context.Context) error {
	token, err := authenticate(ctx)
	if err != nil {
		return fmt.Errorf("failed to authenticate gmail: %w", err)
	}

	if err := p.tokenStore.SaveToken(token); err != nil {
		return fmt.Errorf("failed to save gmail token: %w", err)
	}

	p.token = token
	srv, err := gmailapi.NewService(ctx, option.WithTokenSource(oauthConfig.TokenSource(ctx, token)))
	if err != nil {
		return fmt.Errorf("failed to create gmail service: %w", err)
	}
	p.service = srv
	return nil
}

// IsAuthenticated returns true if the Gmail service is initialized.
func (p *Provider) IsAuthenticated() bool {
	return p.service != nil
}

// initService loads the token from the keyring and creates the Gmail service.
func (p *Provider) initService(ctx context.Context) error {
	token, err := p.tokenStore.LoadToken()
	if err != nil {
		return fmt.Errorf("failed to load gmail token: %w", err)
	}

	p.token = token
	srv, err := gmailapi.NewService(ctx, option.WithTokenSource(oauthConfig.TokenSource(ctx, token)))
	if err != nil {
		return fmt.Errorf("failed to create gmail service: %w", err)
	}
	p.service = srv
	return nil
}

// ensureService lazily initializes the Gmail service if not already done.
func (p *Provider) ensureService(ctx context.Context) error {
	if p.service != nil {
		return nil
	}
	return p.initService(ctx)
}

// ListLabels returns all labels for the authenticated user.
func (p *Provider) ListLabels(ctx context.Context) ([]domain.Label, error) {
	if err := p.ensureService(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure gmail service: %w", err)
	}

	resp, err := p.service.Users.Labels.List(userID).Context(ctx).Do()
	if err != nil {
		return nil, provider.Classify(fmt.Errorf("failed to list gmail labels: %w", err))
	}

	labels := make([]domain.Label, 0, len(resp.Labels))
	for _, l := range resp.Labels {
		labelType := domain.LabelTypeUser
		if l.Type == "system" {
			labelType = domain.LabelTypeSystem
		}
		labels = append(labels, domain.Label{
			ID:   l.Id,
			Name: l.Name,
			Type: labelType,
		})
	}

	return labels, nil
}

// ListMessages returns up to limit messages for a label starting at
// offset, newest first. The Gmail list endpoint pages by token rather
// than offset, so the window is requested as offset+limit references and
// the first offset entries are skipped. The virtual ALLMAIL label omits
// the label filter entirely.
func (p *Provider) ListMessages(ctx context.Context, labelID string, offset, limit int) ([]domain.Message, error) {
	if err := p.ensureService(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure gmail service: %w", err)
	}

	call := p.service.Users.Messages.List(userID).MaxResults(int64(offset + limit))
	if !domain.IsAllMail(labelID) {
		call = call.LabelIds(labelID)
	}

	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, provider.Classify(fmt.Errorf("failed to list gmail messages: %w", err))
	}

	refs := resp.Messages
	if offset >= len(refs) {
		return nil, nil
	}
	refs = refs[offset:]
	if len(refs) > limit {
		refs = refs[:limit]
	}

	messages := make([]domain.Message, 0, len(refs))
	for _, ref := range refs {
		msg, err := p.service.Users.Messages.Get(userID, ref.Id).
			Format("metadata").MetadataHeaders(metadataHeaders...).
			Context(ctx).Do()
		if err != nil {
			return nil, provider.Classify(fmt.Errorf("failed to get gmail message %s: %w", ref.Id, err))
		}
		messages = append(messages, *mapMessage(msg))
	}

	return messages, nil
}

// GetMessage fetches a single message in full format, including decoded
// text and HTML bodies.
func (p *Provider) GetMessage(ctx context.Context, id string) (*domain.Message, error) {
	if err := p.ensureService(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure gmail service: %w", err)
	}

	msg, err := p.service.Users.Messages.Get(userID, id).
		Format("full").Context(ctx).Do()
	if err != nil {
		return nil, provider.Classify(fmt.Errorf("failed to get gmail message %s: %w", id, err))
	}

	return mapMessage(msg), nil
}

// Send composes and sends a message via the Gmail API.
func (p *Provider) Send(ctx context.Context, out *provider.OutgoingMessage) error {
	if err := p.ensureService(ctx); err != nil {
		return fmt.Errorf("failed to ensure gmail service: %w", err)
	}

	raw := buildRawMessage(out)
	encoded := base64.URLEncoding.EncodeToString([]byte(raw))

	msg := &gmailapi.Message{Raw: encoded}
	if _, err := p.service.Users.Messages.Send(userID, msg).Context(ctx).Do(); err != nil {
		return provider.Classify(fmt.Errorf("failed to send gmail message: %w", err))
	}
	return nil
}

// ModifyLabels adds and removes labels on a message.
func (p *Provider) ModifyLabels(ctx context.Context, msgID string, add, remove []string) error {
	if err := p.ensureService(ctx); err != nil {
		return fmt.Errorf("failed to ensure gmail service: %w", err)
	}

	req := &gmailapi.ModifyMessageRequest{
		AddLabelIds:    add,
		RemoveLabelIds: remove,
	}
	if _, err := p.service.Users.Messages.Modify(userID, msgID, req).Context(ctx).Do(); err != nil {
		return provider.Classify(fmt.Errorf("failed to modify labels on message %s: %w", msgID, err))
	}
	return nil
}

// Trash moves a message to trash.
func (p *Provider) Trash(ctx context.Context, msgID string) error {
	if err := p.ensureService(ctx); err != nil {
		return fmt.Errorf("failed to ensure gmail service: %w", err)
	}

	if _, err := p.service.Users.Messages.Trash(userID, msgID).Context(ctx).Do(); err != nil {
		return provider.Classify(fmt.Errorf("failed to trash gmail message %s: %w", msgID, err))
	}
	return nil
}

// buildRawMessage constructs an RFC 2822 message from an outgoing message.
func buildRawMessage(out *provider.OutgoingMessage) string {
	var b strings.Builder

	b.WriteString("To: " + out.To + "\r\n")
	if out.CC != "" {
		b.WriteString("Cc: " + out.CC + "\r\n")
	}
	if out.BCC != "" {
		b.WriteString("Bcc: " + out.BCC + "\r\n")
	}
	b.WriteString("Subject: " + out.Subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(out.Body)

	return b.String()
}

// Compile-time interface compliance check.
var _ provider.MailProvider = (*Provider)(nil)
