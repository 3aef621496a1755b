package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"cimhub-go/internal/auth"
	"cimhub-go/internal/config"
	"cimhub-go/internal/logger"
	"cimhub-go/internal/metrics"
	"cimhub-go/internal/models"

	"github.com/go-ldap/ldap/v3"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type OperatorService struct {
	db   *bun.DB
	jwt  *auth.JWTManager
	cfg  *config.Config
	logr *logger.Logger
}

func NewOperatorService(db *bun.DB, jwt *auth.JWTManager, cfg *config.Config, logr *logger.Logger) *OperatorService {
	return &OperatorService{db: db, jwt: jwt, cfg: cfg, logr: logr}
}

// HashPassword uses bcrypt
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(b), err
}

func ComparePassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

type OperatorInfo struct {
	ID       string   `json:"id"`
	Email    string   `json:"email"`
	Name     string   `json:"name"`
	Provider string   `json:"provider"`
	Roles    []string `json:"roles"`
}

func infoOf(op *models.Operator, provider string) *OperatorInfo {
	return &OperatorInfo{
		ID:       op.ID.String(),
		Email:    op.Email,
		Name:     op.Name,
		Provider: provider,
		Roles:    op.Roles,
	}
}

// Login checks an email and password against the operators table.
func (s *OperatorService) Login(ctx context.Context, email, password string) (*auth.AccessToken, *OperatorInfo, error) {
	var op models.Operator
	err := s.db.NewSelect().Model(&op).Where("email = ?", email).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			metrics.LoginsTotal.WithLabelValues("local", "rejected").Inc()
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to load operator: %w", err)
	}
	if op.PasswordHash == "" {
		metrics.LoginsTotal.WithLabelValues("local", "rejected").Inc()
		return nil, nil, fmt.Errorf("account not configured for local login")
	}
	if err := ComparePassword(op.PasswordHash, password); err != nil {
		metrics.LoginsTotal.WithLabelValues("local", "rejected").Inc()
		return nil, nil, ErrInvalidCredentials
	}

	s.touchLastLogin(ctx, &op)

	tok, err := s.jwt.IssueAccessToken(op.ID.String(), s.cfg.AccessTokenTTL, op.TokenVersion, "local", op.Roles)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to issue token: %w", err)
	}
	metrics.LoginsTotal.WithLabelValues("local", "ok").Inc()
	return tok, infoOf(&op, "local"), nil
}

// LoginLDAP binds as the user through the configured DN template, reads the
// directory entry and provisions the operator on first login.
func (s *OperatorService) LoginLDAP(ctx context.Context, username, password string) (*auth.AccessToken, *OperatorInfo, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, nil, ErrInvalidCredentials
	}

	ldap.DefaultTimeout = 10 * time.Second
	l, err := ldap.DialURL(s.cfg.LDAPServer)
	if err != nil {
		s.logr.Error("LDAP dial failed", zap.Error(err), zap.String("server", s.cfg.LDAPServer))
		return nil, nil, fmt.Errorf("ldap connection failed")
	}
	defer l.Close()
	l.SetTimeout(30 * time.Second)

	userDN := fmt.Sprintf(s.cfg.LDAPUserDNTemplate, ldap.EscapeDN(username))
	if err := l.Bind(userDN, password); err != nil {
		s.logr.Warn("LDAP bind failed", zap.String("username", username))
		metrics.LoginsTotal.WithLabelValues("ldap", "rejected").Inc()
		return nil, nil, ErrInvalidCredentials
	}

	searchReq := ldap.NewSearchRequest(
		s.cfg.LDAPBaseDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		1,
		0,
		false,
		fmt.Sprintf("(|(uid=%[1]s)(sAMAccountName=%[1]s))", ldap.EscapeFilter(username)),
		[]string{"cn", "displayName", "mail"},
		nil,
	)
	sr, err := l.Search(searchReq)
	if err != nil {
		s.logr.Error("LDAP search failed", zap.Error(err), zap.String("username", username))
		return nil, nil, fmt.Errorf("user lookup failed")
	}
	if len(sr.Entries) == 0 {
		return nil, nil, fmt.Errorf("user not found in directory")
	}

	entry := sr.Entries[0]
	mail := entry.GetAttributeValue("mail")
	if mail == "" {
		return nil, nil, fmt.Errorf("user account missing email")
	}
	name := entry.GetAttributeValue("displayName")
	if name == "" {
		name = entry.GetAttributeValue("cn")
	}
	if name == "" {
		name = username
	}

	op, err := s.provision(ctx, mail, name)
	if err != nil {
		return nil, nil, err
	}
	s.touchLastLogin(ctx, op)

	tok, err := s.jwt.IssueAccessToken(op.ID.String(), s.cfg.AccessTokenTTL, op.TokenVersion, "ldap", op.Roles)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to issue token: %w", err)
	}
	metrics.LoginsTotal.WithLabelValues("ldap", "ok").Inc()
	s.logr.Info("LDAP login successful", zap.String("operator_id", op.ID.String()), zap.String("email", mail))
	return tok, infoOf(op, "ldap"), nil
}

func (s *OperatorService) provision(ctx context.Context, mail, name string) (*models.Operator, error) {
	var op models.Operator
	err := s.db.NewSelect().Model(&op).Where("email = ?", mail).Limit(1).Scan(ctx)
	if err == nil {
		return &op, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to load operator: %w", err)
	}
	op = models.Operator{
		Email:     mail,
		Provider:  "ldap",
		Name:      name,
		Roles:     []string{"exporter"},
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.db.NewInsert().Model(&op).Returning("id").Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to create operator: %w", err)
	}
	s.logr.Info("created LDAP operator", zap.String("email", mail))
	return &op, nil
}

func (s *OperatorService) touchLastLogin(ctx context.Context, op *models.Operator) {
	now := time.Now().UTC()
	op.LastLoginAt = &now
	if _, err := s.db.NewUpdate().Model(op).Column("last_login_at").WherePK().Exec(ctx); err != nil {
		s.logr.Warn("failed to record last login", zap.Error(err), zap.String("email", op.Email))
	}
}

// CheckTokenVersion reports whether tokenVersion is still the operator's
// current one; bumping token_version revokes outstanding tokens.
func (s *OperatorService) CheckTokenVersion(ctx context.Context, operatorID string, tokenVersion int) (bool, error) {
	var current int
	err := s.db.NewSelect().
		Model((*models.Operator)(nil)).
		Column("token_version").
		Where("id = ?", operatorID).
		Scan(ctx, &current)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return current == tokenVersion, nil
}
