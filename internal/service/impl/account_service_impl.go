package impl

import (
	"context"
	"errors"
	"log/slog"
	"time"
	"unicode/utf8"

	"bboard/internal/domain"
	"bboard/internal/dto"
	"bboard/internal/observability/metrics"
	"bboard/internal/service"
	"bboard/internal/store"

	"github.com/google/uuid"
)

type AccountConfig struct {
	// PreActivated skips the activation round trip: new accounts are created
	// with both flags already set and no notification goes out.
	PreActivated      bool
	ActivationBaseURL string
}

type AccountServiceImpl struct {
	store    *store.Store
	pw       service.PasswordService
	tokens   service.TokenService
	signer   service.ActivationSigner
	notifier service.Notifier
	blobs    service.BlobStore
	cfg      AccountConfig
}

func NewAccountService(st *store.Store, pw service.PasswordService, tokens service.TokenService, signer service.ActivationSigner, notifier service.Notifier, blobs service.BlobStore, cfg AccountConfig) *AccountServiceImpl {
	return &AccountServiceImpl{
		store:    st,
		pw:       pw,
		tokens:   tokens,
		signer:   signer,
		notifier: notifier,
		blobs:    blobs,
		cfg:      cfg,
	}
}

func (a *AccountServiceImpl) Register(ctx context.Context, r dto.RegisterRequest) (*dto.RegisterResponse, error) {
	result := "success"
	defer func() {
		metrics.RegistrationsTotal.WithLabelValues(result).Inc()
	}()

	verr := domain.NewValidationError()
	if r.Username == "" {
		verr.Add("username", "required")
	} else if utf8.RuneCountInString(r.Username) > 150 {
		verr.Add("username", "too long")
	}
	if len(r.Password) < 8 {
		verr.Add("password", "must be at least 8 characters")
	}
	if !verr.Empty() {
		result = "failure"
		return nil, verr
	}

	sendMessages := true
	if r.SendMessages != nil {
		sendMessages = *r.SendMessages
	}

	var user *domain.User
	err := a.store.WithTx(ctx, func(tx *store.Store) error {
		taken, err := tx.Users().UsernameTaken(ctx, r.Username)
		if err != nil {
			return err
		}
		if taken {
			verr.Add("username", "already taken")
			return verr
		}

		hash, salt, paramsJSON, algo, ver, err := a.pw.Hash(r.Password)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		user = &domain.User{
			ID:           uuid.New(),
			Username:     r.Username,
			PassAlgo:     algo,
			PassHash:     hash,
			PassSalt:     salt,
			PassParams:   paramsJSON,
			PassVer:      ver,
			IsActive:     a.cfg.PreActivated,
			IsActivated:  a.cfg.PreActivated,
			SendMessages: sendMessages,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		return tx.Users().Create(ctx, user)
	})
	if err != nil {
		result = "failure"
		return nil, err
	}

	if !a.cfg.PreActivated {
		// Delivery is best-effort; the account exists either way and the
		// link can be re-sent out of band.
		sign, err := a.signer.Sign(user.Username)
		if err != nil {
			slog.Error("sign activation token", "user_id", user.ID, "error", err)
		} else {
			url := a.cfg.ActivationBaseURL + "/v1/accounts/activate/" + sign
			if err := a.notifier.NotifyRegistered(ctx, user, url); err != nil {
				slog.Warn("registration notification failed", "user_id", user.ID, "error", err)
			}
		}
	}

	slog.Info("user registered", "user_id", user.ID, "username", user.Username, "pre_activated", a.cfg.PreActivated)

	return &dto.RegisterResponse{
		UserID:             user.ID.String(),
		Username:           user.Username,
		RequiresActivation: !a.cfg.PreActivated,
	}, nil
}

func (a *AccountServiceImpl) Activate(ctx context.Context, sign string) (*dto.ActivateResponse, error) {
	result := "success"
	defer func() {
		metrics.ActivationsTotal.WithLabelValues(result).Inc()
	}()

	username, err := a.signer.Unsign(sign)
	if err != nil {
		result = "failure"
		return nil, err
	}

	user, err := a.store.Users().GetByUsername(ctx, username)
	if err != nil {
		result = "failure"
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if user.IsActivated {
		return &dto.ActivateResponse{
			Username:         user.Username,
			Activated:        false,
			AlreadyActivated: true,
		}, nil
	}

	if err := a.store.Users().Activate(ctx, user.ID); err != nil {
		result = "failure"
		return nil, err
	}

	slog.Info("user activated", "user_id", user.ID, "username", user.Username)
	return &dto.ActivateResponse{
		Username:  user.Username,
		Activated: true,
	}, nil
}

func (a *AccountServiceImpl) Login(ctx context.Context, r dto.LoginRequest) (*dto.TokenResponse, error) {
	result := "success"
	defer func() {
		metrics.LoginsTotal.WithLabelValues(result).Inc()
	}()

	if r.Username == "" || r.Password == "" {
		result = "failure"
		return nil, domain.ErrInvalidCredentials
	}

	var tokens *dto.TokenResponse
	err := a.store.WithTx(ctx, func(tx *store.Store) error {
		user, err := tx.Users().GetByUsername(ctx, r.Username)
		if err != nil {
			return domain.ErrInvalidCredentials // don't leak which field failed
		}
		if !user.IsActive {
			return domain.ErrUserInactive
		}

		rehashNeeded, ok := a.pw.Verify(r.Password, user)
		if !ok {
			return domain.ErrInvalidCredentials
		}

		// Transparent rehash on policy upgrade.
		if rehashNeeded {
			hash, salt, paramsJSON, algo, ver, err := a.pw.Hash(r.Password)
			if err != nil {
				return err
			}
			user.PassAlgo = algo
			user.PassHash = hash
			user.PassSalt = salt
			user.PassParams = paramsJSON
			user.PassVer = ver
			if err := tx.Users().SaveCredential(ctx, user); err != nil {
				return err
			}
		}

		tokens, err = a.tokens.Issue(ctx, user)
		return err
	})
	if err != nil {
		result = "failure"
		return nil, err
	}
	return tokens, nil
}

func (a *AccountServiceImpl) UpdateProfile(ctx context.Context, userID domain.UserID, r dto.ProfileUpdateRequest) (*dto.ProfileResponse, error) {
	verr := domain.NewValidationError()
	if r.Username == "" {
		verr.Add("username", "required")
	} else if utf8.RuneCountInString(r.Username) > 150 {
		verr.Add("username", "too long")
	}
	if !verr.Empty() {
		return nil, verr
	}

	var user *domain.User
	err := a.store.WithTx(ctx, func(tx *store.Store) error {
		var err error
		user, err = tx.Users().GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		if r.Username != user.Username {
			taken, err := tx.Users().UsernameTaken(ctx, r.Username)
			if err != nil {
				return err
			}
			if taken {
				verr.Add("username", "already taken")
				return verr
			}
		}

		user.Username = r.Username
		if r.SendMessages != nil {
			user.SendMessages = *r.SendMessages
		}
		return tx.Users().SaveProfile(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("profile updated", "user_id", userID, "username", user.Username)
	return &dto.ProfileResponse{
		UserID:       user.ID.String(),
		Username:     user.Username,
		SendMessages: user.SendMessages,
		IsActivated:  user.IsActivated,
	}, nil
}

func (a *AccountServiceImpl) ChangePassword(ctx context.Context, userID domain.UserID, r dto.PasswordChangeRequest) error {
	verr := domain.NewValidationError()
	if len(r.NewPassword) < 8 {
		verr.Add("newPassword", "must be at least 8 characters")
	}
	if !verr.Empty() {
		return verr
	}

	return a.store.WithTx(ctx, func(tx *store.Store) error {
		user, err := tx.Users().GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		if _, ok := a.pw.Verify(r.OldPassword, user); !ok {
			return domain.ErrInvalidCredentials
		}

		hash, salt, paramsJSON, algo, ver, err := a.pw.Hash(r.NewPassword)
		if err != nil {
			return err
		}
		user.PassAlgo = algo
		user.PassHash = hash
		user.PassSalt = salt
		user.PassParams = paramsJSON
		user.PassVer = ver
		if err := tx.Users().SaveCredential(ctx, user); err != nil {
			return err
		}

		slog.Info("password changed", "user_id", userID)
		return nil
	})
}

func (a *AccountServiceImpl) Delete(ctx context.Context, userID domain.UserID) error {
	counts, blobKeys, err := a.store.DeleteUserData(ctx, userID)
	if err != nil {
		return err
	}
	if counts["users"] == 0 {
		return domain.ErrNotFound
	}

	cleanupBlobs(ctx, a.blobs, blobKeys)

	slog.Info("user deleted",
		"user_id", userID,
		"bbs", counts["bbs"],
		"additional_images", counts["additionalImages"],
		"comments", counts["comments"],
	)
	return nil
}
