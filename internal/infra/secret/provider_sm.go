// internal/infra/secret/provider_sm.go
package secret

import (
	"context"
	"errors"
	"fmt"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// RefScheme marks a config value that names a Secret Manager secret:
// "sm://<secretId>" or "sm://projects/<p>/secrets/<id>/versions/<v>".
const RefScheme = "sm://"

var (
	ErrNotConfigured    = errors.New("secret_provider: not configured")
	ErrEmptySecretID    = errors.New("secret_provider: secretId is empty")
	ErrSecretNotFound   = errors.New("secret_provider: secret not found")
	ErrPermissionDenied = errors.New("secret_provider: permission denied")
)

type accessFunc func(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest) (*secretmanagerpb.AccessSecretVersionResponse, error)

// ProviderSM resolves secret references through Google Secret Manager.
type ProviderSM struct {
	Client    *secretmanager.Client
	ProjectID string

	access accessFunc
}

func NewProviderSM(ctx context.Context, projectID string, opts ...option.ClientOption) (*ProviderSM, error) {
	pid := strings.TrimSpace(projectID)
	if pid == "" {
		return nil, fmt.Errorf("%w: projectID is empty", ErrNotConfigured)
	}

	c, err := secretmanager.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("secret_provider: secretmanager.NewClient failed: %w", err)
	}

	return &ProviderSM{
		Client:    c,
		ProjectID: pid,
		access: func(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest) (*secretmanagerpb.AccessSecretVersionResponse, error) {
			return c.AccessSecretVersion(ctx, req)
		},
	}, nil
}

func (p *ProviderSM) Close() error {
	if p == nil || p.Client == nil {
		return nil
	}
	return p.Client.Close()
}

// IsRef reports whether v is a secret reference.
func IsRef(v string) bool {
	return strings.HasPrefix(strings.TrimSpace(v), RefScheme)
}

// Resolve returns the secret payload for references and v itself otherwise.
func (p *ProviderSM) Resolve(ctx context.Context, v string) (string, error) {
	v = strings.TrimSpace(v)
	if !IsRef(v) {
		return v, nil
	}
	return p.Get(ctx, strings.TrimPrefix(v, RefScheme))
}

// Get reads the latest version of secretID (or the given full version name).
func (p *ProviderSM) Get(ctx context.Context, secretID string) (string, error) {
	if p == nil || p.access == nil {
		return "", ErrNotConfigured
	}

	id := strings.TrimSpace(secretID)
	if id == "" {
		return "", ErrEmptySecretID
	}

	name := id
	if !strings.HasPrefix(id, "projects/") {
		name = fmt.Sprintf("projects/%s/secrets/%s/versions/latest", p.ProjectID, id)
	}

	res, err := p.access(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		switch status.Code(err) {
		case codes.NotFound:
			return "", fmt.Errorf("%w: %s", ErrSecretNotFound, name)
		case codes.PermissionDenied:
			return "", fmt.Errorf("%w: %s", ErrPermissionDenied, name)
		}
		return "", fmt.Errorf("secret_provider: access %s: %w", name, err)
	}
	if res == nil || res.GetPayload() == nil {
		return "", fmt.Errorf("%w: %s (empty payload)", ErrSecretNotFound, name)
	}

	s := strings.TrimSpace(string(res.GetPayload().GetData()))
	if s == "" {
		return "", fmt.Errorf("%w: %s (empty payload)", ErrSecretNotFound, name)
	}
	return s, nil
}
