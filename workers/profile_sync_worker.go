package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"seefinish-platform/models"
)

// ProfileSyncWorker mirrors accounts from the hosted auth provider into
// the local profiles table so feed joins never reach across the network.
type ProfileSyncWorker struct {
	db           *gorm.DB
	interval     time.Duration
	baseURL      string
	endpointPath string
	serviceToken string
	httpClient   *http.Client
}

func NewProfileSyncWorker(db *gorm.DB, interval time.Duration, baseURL, serviceToken string) *ProfileSyncWorker {
	return &ProfileSyncWorker{
		db:           db,
		interval:     interval,
		baseURL:      baseURL,
		endpointPath: "/admin/accounts/changes",
		serviceToken: serviceToken,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
	}
}

func (w *ProfileSyncWorker) Start(ctx context.Context) {
	log.Printf("[SYNC] profile sync worker started (interval %s)", w.interval)
	go w.run(ctx)
}

func (w *ProfileSyncWorker) run(ctx context.Context) {
	// Catch up once at startup, then poll.
	w.syncBatch(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[SYNC] profile sync worker stopped")
			return
		case <-ticker.C:
			w.syncBatch(ctx)
		}
	}
}

// getLastSyncTime returns the newest profile update we already hold.
// A zero time means the table is empty and we do a full import.
func (w *ProfileSyncWorker) getLastSyncTime() time.Time {
	var last *time.Time
	if err := w.db.Model(&models.Profile{}).Select("MAX(updated_at)").Scan(&last).Error; err != nil {
		log.Printf("❌ [SYNC] failed to read last profile sync time: %v", err)
		return time.Time{}
	}
	if last == nil {
		return time.Time{}
	}
	return *last
}

// accountRecord is the auth provider's wire shape for a changed account.
type accountRecord struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	DisplayName   *string   `json:"display_name"`
	AvatarURL     *string   `json:"avatar_url"`
	WalletAddress *string   `json:"wallet_address"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (w *ProfileSyncWorker) syncBatch(ctx context.Context) {
	since := w.getLastSyncTime()

	endpoint, err := url.JoinPath(w.baseURL, w.endpointPath)
	if err != nil {
		log.Printf("❌ [SYNC] bad auth service URL: %v", err)
		return
	}
	if !since.IsZero() {
		endpoint += "?since=" + url.QueryEscape(since.UTC().Format(time.RFC3339))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		log.Printf("❌ [SYNC] failed to build accounts request: %v", err)
		return
	}
	req.Header.Set("X-Service-Token", w.serviceToken)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		log.Printf("❌ [SYNC] accounts request failed: %v", err)
		return
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		log.Printf("❌ [SYNC] auth service returned %d", resp.StatusCode)
		return
	}

	var payload struct {
		Accounts []accountRecord `json:"accounts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Printf("❌ [SYNC] failed to decode accounts payload: %v", err)
		return
	}
	if len(payload.Accounts) == 0 {
		return
	}

	upserted, failed := 0, 0
	for _, acc := range payload.Accounts {
		if acc.ID == "" {
			failed++
			continue
		}
		profile := models.Profile{
			ID:            uuid.NewString(),
			UserID:        acc.ID,
			Username:      usernameFor(acc),
			DisplayName:   acc.DisplayName,
			AvatarURL:     acc.AvatarURL,
			WalletAddress: acc.WalletAddress,
		}
		// Existing rows keep their username: users rename themselves
		// locally and the provider must not clobber that.
		err := w.db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"display_name", "avatar_url", "updated_at",
			}),
		}).Create(&profile).Error
		if err != nil {
			log.Printf("❌ [SYNC] failed to upsert profile for account %s: %v", acc.ID, err)
			failed++
			continue
		}
		upserted++
	}

	log.Printf("✅ [SYNC] profiles synced: %d upserted, %d failed", upserted, failed)
}

// usernameFor derives a unique slug for a freshly imported account. The
// account ID suffix keeps bulk imports collision-free without a lookup
// per row.
func usernameFor(acc accountRecord) string {
	base := ""
	if acc.DisplayName != nil {
		base = slug.Make(*acc.DisplayName)
	}
	if base == "" {
		if at := strings.Index(acc.Email, "@"); at > 0 {
			base = slug.Make(acc.Email[:at])
		}
	}
	if base == "" {
		base = "user"
	}
	suffix := acc.ID
	if len(suffix) > 6 {
		suffix = suffix[:6]
	}
	return fmt.Sprintf("%s-%s", base, suffix)
}
