package bvh

import "errors"

var (
	ErrBuildStackOverflow = errors.New("bvh: build work stack capacity exceeded")
	ErrTreeTooDeep        = errors.New("bvh: tree depth exceeds traversal stack capacity")
)
