package consts

import "time"

const DBCtxTimeout = 3 * time.Second
