// Package institutes manages university accounts: registration, login and
// the approval gate that controls access to certificate issuance.
package institutes

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dmitrijs2005/certledger/internal/common"
	"github.com/dmitrijs2005/certledger/internal/logging"
	"github.com/dmitrijs2005/certledger/internal/server/auth"
	"github.com/dmitrijs2005/certledger/internal/server/config"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

type Service struct {
	repo                  Repository
	logger                logging.Logger
	jwtSecret             []byte
	tokenValidityDuration time.Duration
}

func NewService(repo Repository, cfg *config.Config, logger logging.Logger) *Service {
	return &Service{
		repo:                  repo,
		logger:                logger,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

func validWalletAddress(addr string) bool {
	if !strings.HasPrefix(addr, "0x") || len(addr) != 42 {
		return false
	}
	_, err := hexutil.Decode(addr)
	return err == nil
}

func (s *Service) Register(ctx context.Context, name, email, password, walletAddress string) (*Institute, error) {

	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	walletAddress = strings.TrimSpace(walletAddress)

	if name == "" {
		return nil, fmt.Errorf("%w: name is required", common.ErrorValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email", common.ErrorValidation)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, minPasswordLength)
	}
	if !validWalletAddress(walletAddress) {
		return nil, fmt.Errorf("%w: invalid wallet address", common.ErrorValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.ErrorInternal
	}

	institute := &Institute{
		Name:          name,
		Email:         email,
		PasswordHash:  hash,
		WalletAddress: walletAddress,
		// New accounts wait for manual approval before they can issue.
		Approved: false,
	}

	institute, err = s.repo.Create(ctx, institute)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating institute: %v", err)
	}

	s.logger.Info(ctx, "institute registered", "id", institute.ID, "email", institute.Email)

	return institute, nil
}

// Login verifies credentials and returns a session token. Unknown emails and
// wrong passwords both map to common.ErrorUnauthorized so callers cannot
// probe which accounts exist. Unapproved accounts are rejected separately.
func (s *Service) Login(ctx context.Context, email, password string) (string, *Institute, error) {

	email = strings.ToLower(strings.TrimSpace(email))

	institute, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", nil, common.ErrorUnauthorized
		}
		return "", nil, common.ErrorInternal
	}

	if err := bcrypt.CompareHashAndPassword(institute.PasswordHash, []byte(password)); err != nil {
		return "", nil, common.ErrorUnauthorized
	}

	if !institute.Approved {
		return "", nil, common.ErrorNotApproved
	}

	token, err := auth.GenerateToken(institute.ID, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return "", nil, common.ErrorInternal
	}

	return token, institute, nil
}

func (s *Service) Profile(ctx context.Context, id string) (*Institute, error) {
	return s.repo.GetByID(ctx, id)
}
