package consts

import "time"

const (
	DBCtxTimeout = 3 * time.Second
	TokenTTL     = 3 * time.Hour
)
