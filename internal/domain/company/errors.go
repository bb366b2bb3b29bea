package company

import "errors"

var ErrNoParentCompany = errors.New("parent company id not found, sign in first")
