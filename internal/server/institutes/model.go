package institutes

import "time"

type Institute struct {
	ID            string
	Name          string
	Email         string
	PasswordHash  []byte
	WalletAddress string
	Approved      bool
	CreatedAt     time.Time
}
