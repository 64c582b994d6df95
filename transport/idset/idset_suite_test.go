/*
 * Copyright (c) 2020-2026, plasmasync Authors.
 */
package idset_test

import (
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func TestIdset(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, t.Name())
}
