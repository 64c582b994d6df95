// Package cos provides common low-level types and utilities.
/*
 * Copyright (c) 2020-2026, plasmasync Authors.
 */
package cos_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/plasmasync/plasmasync/cmn/cos"
)

var _ = Describe("GenConnID", func() {
	It("returns distinct, non-empty ids across repeated calls", func() {
		cos.InitShortID(12345)
		seen := make(map[string]bool)
		for range 100 {
			id := cos.GenConnID()
			Expect(id).NotTo(BeEmpty())
			Expect(seen[id]).To(BeFalse(), "unexpected duplicate id %q", id)
			seen[id] = true
		}
	})
})
