package org_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/okr-dashboard/internal/core/org"
)

func seedUsers() []org.User {
	return []org.User{
		{ID: "ceo-1", Name: "Alex Riley", Role: org.RoleCEO},
		{ID: "manager-1", Name: "Jane Doe", Role: org.RoleManager, ManagerID: "ceo-1"},
		{ID: "user-1", Name: "John Smith", Role: org.RoleUser, ManagerID: "manager-1"},
		{ID: "user-2", Name: "Peter Jones", Role: org.RoleUser, ManagerID: "manager-1"},
		{ID: "hr-1", Name: "Susan Reid", Role: org.RoleHR, ManagerID: "ceo-1", IsAdmin: true},
	}
}

func ids(users []org.User) []string {
	out := make([]string, len(users))
	for i, u := range users {
		out[i] = u.ID
	}
	return out
}

var _ = Describe("Directory", func() {
	var dir *org.Directory

	BeforeEach(func() {
		var err error
		dir, err = org.NewDirectory(seedUsers()...)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("NewDirectory", func() {
		It("should reject duplicate ids", func() {
			users := append(seedUsers(), org.User{ID: "user-1", Name: "Dup", Role: org.RoleUser})
			_, err := org.NewDirectory(users...)
			Expect(err).To(MatchError(org.ErrDuplicateUser))
		})

		It("should reject unknown roles", func() {
			_, err := org.NewDirectory(org.User{ID: "x", Role: org.Role("intern")})
			Expect(err).To(MatchError(org.ErrInvalidRole))
		})

		It("should reject empty ids", func() {
			_, err := org.NewDirectory(org.User{Role: org.RoleUser})
			Expect(err).To(MatchError(org.ErrEmptyUserID))
		})

		It("should accept a directory containing a cycle", func() {
			_, err := org.NewDirectory(
				org.User{ID: "a", Role: org.RoleManager, ManagerID: "b"},
				org.User{ID: "b", Role: org.RoleManager, ManagerID: "a"},
			)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("FindUser", func() {
		It("should return a known user", func() {
			u, ok := dir.FindUser("hr-1")
			Expect(ok).To(BeTrue())
			Expect(u.IsAdmin).To(BeTrue())
			Expect(u.Role).To(Equal(org.RoleHR))
		})

		It("should report not-found without error", func() {
			_, ok := dir.FindUser("ghost")
			Expect(ok).To(BeFalse())
		})

		It("should be safe on a nil directory", func() {
			var nilDir *org.Directory
			_, ok := nilDir.FindUser("ceo-1")
			Expect(ok).To(BeFalse())
			Expect(nilDir.IsManagerOf("ceo-1", "manager-1")).To(BeFalse())
		})
	})

	Describe("IsManagerOf", func() {
		It("should be true for the direct manager", func() {
			Expect(dir.IsManagerOf("manager-1", "user-1")).To(BeTrue())
		})

		It("should not be transitive", func() {
			Expect(dir.IsManagerOf("ceo-1", "user-1")).To(BeFalse())
		})

		It("should be false for the root and unknown users", func() {
			Expect(dir.IsManagerOf("", "ceo-1")).To(BeFalse())
			Expect(dir.IsManagerOf("manager-1", "ghost")).To(BeFalse())
		})
	})

	Describe("AncestorsOf", func() {
		It("should list managers nearest first", func() {
			ancestors, err := dir.AncestorsOf("user-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(ancestors)).To(Equal([]string{"manager-1", "ceo-1"}))
		})

		It("should return an empty sequence for the root", func() {
			ancestors, err := dir.AncestorsOf("ceo-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(ancestors).To(BeEmpty())
		})

		It("should return an empty sequence for unknown users", func() {
			ancestors, err := dir.AncestorsOf("ghost")
			Expect(err).NotTo(HaveOccurred())
			Expect(ancestors).To(BeEmpty())
		})

		It("should always end at a user without a manager", func() {
			for _, u := range dir.Users() {
				ancestors, err := dir.AncestorsOf(u.ID)
				Expect(err).NotTo(HaveOccurred())
				if len(ancestors) > 0 {
					Expect(ancestors[len(ancestors)-1].HasManager()).To(BeFalse())
				} else {
					Expect(u.HasManager()).To(BeFalse())
				}
			}
		})

		It("should fail with ErrCycleDetected instead of looping", func() {
			cyclic, err := org.NewDirectory(
				org.User{ID: "a", Role: org.RoleManager, ManagerID: "b"},
				org.User{ID: "b", Role: org.RoleManager, ManagerID: "c"},
				org.User{ID: "c", Role: org.RoleManager, ManagerID: "a"},
			)
			Expect(err).NotTo(HaveOccurred())

			_, err = cyclic.AncestorsOf("a")
			Expect(errors.Is(err, org.ErrCycleDetected)).To(BeTrue())
		})

		It("should detect a self reference", func() {
			cyclic, err := org.NewDirectory(org.User{ID: "a", Role: org.RoleCEO, ManagerID: "a"})
			Expect(err).NotTo(HaveOccurred())

			_, err = cyclic.AncestorsOf("a")
			Expect(err).To(MatchError(org.ErrCycleDetected))
		})

		It("should stop at a dangling manager reference", func() {
			partial, err := org.NewDirectory(
				org.User{ID: "a", Role: org.RoleUser, ManagerID: "b"},
				org.User{ID: "b", Role: org.RoleManager, ManagerID: "missing"},
			)
			Expect(err).NotTo(HaveOccurred())

			ancestors, err := partial.AncestorsOf("a")
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(ancestors)).To(Equal([]string{"b"}))
		})
	})

	Describe("Root", func() {
		It("should resolve the user without a manager", func() {
			root, ok := dir.Root()
			Expect(ok).To(BeTrue())
			Expect(root.ID).To(Equal("ceo-1"))
		})

		It("should not assume a fixed root id", func() {
			other, err := org.NewDirectory(
				org.User{ID: "founder", Role: org.RoleCEO},
				org.User{ID: "m", Role: org.RoleManager, ManagerID: "founder"},
			)
			Expect(err).NotTo(HaveOccurred())
			root, ok := other.Root()
			Expect(ok).To(BeTrue())
			Expect(root.ID).To(Equal("founder"))
		})

		It("should report false when the root is ambiguous", func() {
			two, err := org.NewDirectory(
				org.User{ID: "a", Role: org.RoleCEO},
				org.User{ID: "b", Role: org.RoleCEO},
			)
			Expect(err).NotTo(HaveOccurred())
			_, ok := two.Root()
			Expect(ok).To(BeFalse())
		})
	})

	Describe("Members", func() {
		It("should show the actor and direct reports for the my view", func() {
			members, err := dir.Members(org.ViewMy, "manager-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(members)).To(Equal([]string{"manager-1", "user-1", "user-2"}))
		})

		It("should show everyone to the root in the my view", func() {
			members, err := dir.Members(org.ViewMy, "ceo-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(members).To(HaveLen(5))
		})

		It("should exclude users outside the root's tree in the company view", func() {
			withOrphan, err := org.NewDirectory(append(seedUsers(),
				org.User{ID: "contractor", Role: org.RoleUser, ManagerID: "agency"},
			)...)
			Expect(err).NotTo(HaveOccurred())

			members, err := withOrphan.Members(org.ViewCompany, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(members)).NotTo(ContainElement("contractor"))
			Expect(members).To(HaveLen(5))
		})

		It("should reject unknown views", func() {
			_, err := dir.Members(org.View("team"), "ceo-1")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Reparent", func() {
		It("should return a new directory and leave the original untouched", func() {
			moved, err := dir.Reparent("user-2", "hr-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(moved.IsManagerOf("hr-1", "user-2")).To(BeTrue())
			Expect(dir.IsManagerOf("manager-1", "user-2")).To(BeTrue())
		})

		It("should refuse to move a manager under their own report", func() {
			_, err := dir.Reparent("manager-1", "user-1")
			Expect(err).To(MatchError(org.ErrCycleDetected))
		})

		It("should refuse self parenting", func() {
			_, err := dir.Reparent("user-1", "user-1")
			Expect(err).To(MatchError(org.ErrCycleDetected))
		})

		It("should report unknown users", func() {
			_, err := dir.Reparent("ghost", "ceo-1")
			Expect(err).To(MatchError(org.ErrUserNotFound))
		})
	})

	Describe("Validate", func() {
		It("should accept the seed hierarchy", func() {
			Expect(dir.Validate()).To(Succeed())
		})

		It("should report cycles", func() {
			cyclic, _ := org.NewDirectory(
				org.User{ID: "root", Role: org.RoleCEO},
				org.User{ID: "a", Role: org.RoleManager, ManagerID: "b"},
				org.User{ID: "b", Role: org.RoleManager, ManagerID: "a"},
			)
			Expect(cyclic.Validate()).To(MatchError(org.ErrCycleDetected))
		})

		It("should report multiple roots and unknown managers", func() {
			two, _ := org.NewDirectory(org.User{ID: "a", Role: org.RoleCEO}, org.User{ID: "b", Role: org.RoleCEO})
			Expect(two.Validate()).To(MatchError(org.ErrMultipleRoots))

			dangling, _ := org.NewDirectory(org.User{ID: "a", Role: org.RoleCEO}, org.User{ID: "b", Role: org.RoleUser, ManagerID: "zzz"})
			Expect(dangling.Validate()).To(MatchError(org.ErrUnknownManager))
		})
	})
})
