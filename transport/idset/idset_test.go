/*
 * Copyright (c) 2020-2026, plasmasync Authors.
 */
package idset_test

import (
	"sync"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/plasmasync/plasmasync/plasma"
	"github.com/plasmasync/plasmasync/transport/idset"
)

var _ = Describe("Set", func() {
	It("reserves a fresh id set and reports it as contained", func() {
		s := idset.New()
		ids := []plasma.ID{plasma.RandID(), plasma.RandID()}

		ok, already := s.TryReserve(ids)
		Expect(ok).To(BeTrue())
		Expect(already).To(BeEmpty())
		Expect(s.Contains(ids)).To(HaveLen(2))
	})

	It("rejects a reserve that overlaps an already-reserved id", func() {
		s := idset.New()
		shared := plasma.RandID()

		ok, _ := s.TryReserve([]plasma.ID{shared})
		Expect(ok).To(BeTrue())

		ok, already := s.TryReserve([]plasma.ID{shared, plasma.RandID()})
		Expect(ok).To(BeFalse())
		Expect(already).To(ConsistOf(shared))
	})

	It("leaves the set unmodified when a reserve partially conflicts", func() {
		s := idset.New()
		shared := plasma.RandID()
		fresh := plasma.RandID()

		s.TryReserve([]plasma.ID{shared})
		ok, _ := s.TryReserve([]plasma.ID{shared, fresh})
		Expect(ok).To(BeFalse())
		Expect(s.Contains([]plasma.ID{fresh})).To(BeEmpty())
	})

	It("removes ids unconditionally, including ids never reserved", func() {
		s := idset.New()
		id := plasma.RandID()
		s.TryReserve([]plasma.ID{id})
		s.Remove([]plasma.ID{id, plasma.RandID()})
		Expect(s.Contains([]plasma.ID{id})).To(BeEmpty())
	})

	It("allows exactly one of many concurrent reserves on the same id to win", func() {
		s := idset.New()
		id := plasma.RandID()

		const n = 64
		var wg sync.WaitGroup
		wins := make([]bool, n)
		wg.Add(n)
		for i := 0; i < n; i++ {
			go func(i int) {
				defer wg.Done()
				ok, _ := s.TryReserve([]plasma.ID{id})
				wins[i] = ok
			}(i)
		}
		wg.Wait()

		var count int
		for _, w := range wins {
			if w {
				count++
			}
		}
		Expect(count).To(Equal(1))
	})
})
