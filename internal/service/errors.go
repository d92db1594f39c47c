package service

import "errors"

// ErrChallengeNotFound 引用的挑战不存在
var ErrChallengeNotFound = errors.New("挑战不存在")
