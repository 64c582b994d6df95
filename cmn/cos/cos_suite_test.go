// Package cos provides common low-level types and utilities.
/*
 * Copyright (c) 2020-2026, plasmasync Authors.
 */
package cos_test

import (
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func TestCos(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, t.Name())
}
