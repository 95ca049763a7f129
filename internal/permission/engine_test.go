package permission_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/okr-dashboard/internal/core/okr"
	"github.com/frahmantamala/okr-dashboard/internal/core/org"
	"github.com/frahmantamala/okr-dashboard/internal/permission"
)

var _ = Describe("Engine", func() {
	var (
		engine  *permission.Engine
		dir     *org.Directory
		ceo     *org.User
		manager *org.User
		other   *org.User
		user1   *org.User
		user2   *org.User
		hrAdmin *org.User
		hrPlain *org.User
	)

	lookup := func(id string) *org.User {
		u, ok := dir.FindUser(id)
		Expect(ok).To(BeTrue(), "missing user %s", id)
		return &u
	}

	BeforeEach(func() {
		var err error
		engine = permission.NewEngine()
		dir, err = org.NewDirectory(
			org.User{ID: "ceo-1", Name: "Alex Riley", Role: org.RoleCEO},
			org.User{ID: "manager-1", Name: "Jane Doe", Role: org.RoleManager, ManagerID: "ceo-1"},
			org.User{ID: "manager-2", Name: "Omar Lee", Role: org.RoleManager, ManagerID: "ceo-1"},
			org.User{ID: "user-1", Name: "John Smith", Role: org.RoleUser, ManagerID: "manager-1"},
			org.User{ID: "user-2", Name: "Peter Jones", Role: org.RoleUser, ManagerID: "manager-2"},
			org.User{ID: "hr-1", Name: "Susan Reid", Role: org.RoleHR, ManagerID: "ceo-1", IsAdmin: true},
			org.User{ID: "hr-2", Name: "Ravi Shah", Role: org.RoleHR, ManagerID: "hr-1"},
		)
		Expect(err).NotTo(HaveOccurred())

		ceo = lookup("ceo-1")
		manager = lookup("manager-1")
		other = lookup("manager-2")
		user1 = lookup("user-1")
		user2 = lookup("user-2")
		hrAdmin = lookup("hr-1")
		hrPlain = lookup("hr-2")
	})

	Describe("CanCreateObjective", func() {
		It("should allow the CEO and administrators only", func() {
			Expect(engine.CanCreateObjective(ceo)).To(BeTrue())
			Expect(engine.CanCreateObjective(hrAdmin)).To(BeTrue())
			Expect(engine.CanCreateObjective(manager)).To(BeFalse())
			Expect(engine.CanCreateObjective(user1)).To(BeFalse())
			Expect(engine.CanCreateObjective(hrPlain)).To(BeFalse())
		})

		It("should deny a missing actor", func() {
			Expect(engine.CanCreateObjective(nil)).To(BeFalse())
		})
	})

	Describe("CanRequestObjective", func() {
		It("should be role-exact for managers", func() {
			Expect(engine.CanRequestObjective(manager)).To(BeTrue())
			Expect(engine.CanRequestObjective(ceo)).To(BeFalse())
			Expect(engine.CanRequestObjective(user1)).To(BeFalse())
			Expect(engine.CanRequestObjective(hrAdmin)).To(BeFalse())
			Expect(engine.CanRequestObjective(nil)).To(BeFalse())
		})

		It("should leave plain users without any objective path", func() {
			Expect(engine.CanCreateObjective(user1) || engine.CanRequestObjective(user1)).To(BeFalse())
		})
	})

	Describe("CanDeleteObjective", func() {
		var ceoObjective, managerObjective *okr.Objective

		BeforeEach(func() {
			ceoObjective = &okr.Objective{ID: "10", OwnerID: "ceo-1"}
			managerObjective = &okr.Objective{ID: "11", OwnerID: "manager-2"}
		})

		It("should block an administrator from deleting the root user's objective", func() {
			Expect(engine.CanDeleteObjective(hrAdmin, ceoObjective, dir)).To(BeFalse())
		})

		It("should let an administrator delete any other objective", func() {
			Expect(engine.CanDeleteObjective(hrAdmin, managerObjective, dir)).To(BeTrue())
			Expect(engine.CanDeleteObjective(hrAdmin, &okr.Objective{ID: "12", OwnerID: "hr-1"}, dir)).To(BeTrue())
		})

		It("should let the CEO delete their own objective", func() {
			Expect(engine.CanDeleteObjective(ceo, ceoObjective, dir)).To(BeTrue())
			Expect(engine.CanDeleteObjective(ceo, managerObjective, dir)).To(BeTrue())
		})

		It("should deny everyone else, including the owner", func() {
			Expect(engine.CanDeleteObjective(other, managerObjective, dir)).To(BeFalse())
			Expect(engine.CanDeleteObjective(user1, managerObjective, dir)).To(BeFalse())
			Expect(engine.CanDeleteObjective(hrPlain, managerObjective, dir)).To(BeFalse())
		})

		It("should deny when actor or objective is absent", func() {
			Expect(engine.CanDeleteObjective(nil, managerObjective, dir)).To(BeFalse())
			Expect(engine.CanDeleteObjective(ceo, nil, dir)).To(BeFalse())
		})

		It("should resolve the root from the directory rather than a fixed id", func() {
			renamed, err := org.NewDirectory(
				org.User{ID: "founder", Role: org.RoleCEO},
				org.User{ID: "ceo-1", Role: org.RoleManager, ManagerID: "founder"},
				org.User{ID: "hr-1", Role: org.RoleHR, ManagerID: "founder", IsAdmin: true},
			)
			Expect(err).NotTo(HaveOccurred())

			Expect(engine.CanDeleteObjective(hrAdmin, ceoObjective, renamed)).To(BeTrue())
			Expect(engine.CanDeleteObjective(hrAdmin, &okr.Objective{ID: "1", OwnerID: "founder"}, renamed)).To(BeFalse())
		})

		It("should refuse administrators when the directory has two roots", func() {
			split, err := org.NewDirectory(
				org.User{ID: "ceo-1", Role: org.RoleCEO},
				org.User{ID: "hr-1", Role: org.RoleHR, IsAdmin: true},
				org.User{ID: "manager-2", Role: org.RoleManager, ManagerID: "ceo-1"},
			)
			Expect(err).NotTo(HaveOccurred())

			Expect(engine.CanDeleteObjective(hrAdmin, ceoObjective, split)).To(BeFalse())
			Expect(engine.CanDeleteObjective(hrAdmin, managerObjective, split)).To(BeFalse())
			Expect(engine.CanDeleteObjective(ceo, ceoObjective, split)).To(BeTrue())
		})

		It("should refuse administrators without a directory", func() {
			Expect(engine.CanDeleteObjective(hrAdmin, ceoObjective, nil)).To(BeFalse())
			Expect(engine.CanDeleteObjective(hrAdmin, managerObjective, nil)).To(BeFalse())
			Expect(engine.CanDeleteObjective(ceo, managerObjective, nil)).To(BeTrue())
		})

		It("should apply the root carve-out to administrators only", func() {
			ceoAdmin := &org.User{ID: "ceo-1", Role: org.RoleCEO, IsAdmin: true}
			Expect(engine.CanDeleteObjective(ceoAdmin, ceoObjective, dir)).To(BeFalse())
			Expect(engine.CanDeleteObjective(ceo, ceoObjective, dir)).To(BeTrue())
		})
	})

	Describe("CanAddMilestone", func() {
		It("should allow only the key result owner", func() {
			kr := &okr.KeyResult{ID: "kr1", OwnerID: "user-1"}
			Expect(engine.CanAddMilestone(user1, kr)).To(BeTrue())
			Expect(engine.CanAddMilestone(user2, kr)).To(BeFalse())
		})

		It("should not fall back to the owner's manager, the CEO or administrators", func() {
			kr := &okr.KeyResult{ID: "kr1", OwnerID: "user-1"}
			Expect(engine.CanAddMilestone(manager, kr)).To(BeFalse())
			Expect(engine.CanAddMilestone(ceo, kr)).To(BeFalse())
			Expect(engine.CanAddMilestone(hrAdmin, kr)).To(BeFalse())
		})

		It("should deny when actor or key result is absent", func() {
			Expect(engine.CanAddMilestone(nil, &okr.KeyResult{OwnerID: "user-1"})).To(BeFalse())
			Expect(engine.CanAddMilestone(user1, nil)).To(BeFalse())
		})
	})

	Describe("CanUpdateMilestone", func() {
		var (
			milestone     *okr.Milestone
			reportKR      *okr.KeyResult
			nonReportKR   *okr.KeyResult
			grandReportKR *okr.KeyResult
		)

		BeforeEach(func() {
			milestone = &okr.Milestone{ID: "m1", Status: okr.MilestoneInProgress}
			reportKR = &okr.KeyResult{ID: "kr1", OwnerID: "user-1"}
			nonReportKR = &okr.KeyResult{ID: "kr2", OwnerID: "user-2"}
			grandReportKR = &okr.KeyResult{ID: "kr3", OwnerID: "user-1"}
		})

		It("should allow the key result owner", func() {
			Expect(engine.CanUpdateMilestone(user1, milestone, reportKR, dir)).To(BeTrue())
		})

		It("should allow the direct manager of the owner", func() {
			Expect(engine.CanUpdateMilestone(manager, milestone, reportKR, dir)).To(BeTrue())
		})

		It("should deny a manager for someone who is not their report", func() {
			Expect(engine.CanUpdateMilestone(manager, milestone, nonReportKR, dir)).To(BeFalse())
		})

		It("should require the manager role for the manager path", func() {
			plainBoss, err := org.NewDirectory(
				org.User{ID: "ceo-1", Role: org.RoleCEO},
				org.User{ID: "lead", Role: org.RoleUser, ManagerID: "ceo-1"},
				org.User{ID: "user-1", Role: org.RoleUser, ManagerID: "lead"},
			)
			Expect(err).NotTo(HaveOccurred())
			lead := &org.User{ID: "lead", Role: org.RoleUser}
			Expect(engine.CanUpdateMilestone(lead, milestone, grandReportKR, plainBoss)).To(BeFalse())
		})

		It("should allow the CEO and administrators on any key result", func() {
			Expect(engine.CanUpdateMilestone(ceo, milestone, nonReportKR, dir)).To(BeTrue())
			Expect(engine.CanUpdateMilestone(hrAdmin, milestone, nonReportKR, dir)).To(BeTrue())
			Expect(engine.CanUpdateMilestone(hrPlain, milestone, nonReportKR, dir)).To(BeFalse())
		})

		It("should ignore the milestone's own status", func() {
			done := &okr.Milestone{ID: "m2", Status: okr.MilestoneDone}
			Expect(engine.CanUpdateMilestone(user1, done, reportKR, dir)).To(BeTrue())
		})

		It("should still grant owner and override paths without a directory", func() {
			Expect(engine.CanUpdateMilestone(user1, milestone, reportKR, nil)).To(BeTrue())
			Expect(engine.CanUpdateMilestone(ceo, milestone, reportKR, nil)).To(BeTrue())
			Expect(engine.CanUpdateMilestone(manager, milestone, reportKR, nil)).To(BeFalse())
		})

		It("should deny when any input entity is absent", func() {
			Expect(engine.CanUpdateMilestone(nil, milestone, reportKR, dir)).To(BeFalse())
			Expect(engine.CanUpdateMilestone(ceo, nil, reportKR, dir)).To(BeFalse())
			Expect(engine.CanUpdateMilestone(ceo, milestone, nil, dir)).To(BeFalse())
		})
	})

	Describe("CanManageOrganization", func() {
		It("should allow administrators, the CEO and HR", func() {
			Expect(engine.CanManageOrganization(ceo)).To(BeTrue())
			Expect(engine.CanManageOrganization(hrAdmin)).To(BeTrue())
			Expect(engine.CanManageOrganization(hrPlain)).To(BeTrue())
			Expect(engine.CanManageOrganization(manager)).To(BeFalse())
			Expect(engine.CanManageOrganization(user1)).To(BeFalse())
			Expect(engine.CanManageOrganization(nil)).To(BeFalse())
		})
	})

	Describe("purity", func() {
		It("should return identical answers for identical inputs", func() {
			kr := &okr.KeyResult{ID: "kr1", OwnerID: "user-1"}
			m := &okr.Milestone{ID: "m1", Status: okr.MilestoneToDo}
			obj := &okr.Objective{ID: "1", OwnerID: "ceo-1"}
			actors := []*org.User{nil, ceo, manager, other, user1, user2, hrAdmin, hrPlain}

			for _, a := range actors {
				Expect(engine.CanCreateObjective(a)).To(Equal(engine.CanCreateObjective(a)))
				Expect(engine.CanRequestObjective(a)).To(Equal(engine.CanRequestObjective(a)))
				Expect(engine.CanDeleteObjective(a, obj, dir)).To(Equal(engine.CanDeleteObjective(a, obj, dir)))
				Expect(engine.CanAddMilestone(a, kr)).To(Equal(engine.CanAddMilestone(a, kr)))
				Expect(engine.CanUpdateMilestone(a, m, kr, dir)).To(Equal(engine.CanUpdateMilestone(a, m, kr, dir)))
			}

			Expect(m.Status).To(Equal(okr.MilestoneToDo))
			Expect(kr.OwnerID).To(Equal("user-1"))
			Expect(dir.Len()).To(Equal(7))
		})
	})

	Describe("scenario: manager, report and CEO", func() {
		It("should separate adding from updating milestones", func() {
			small, err := org.NewDirectory(
				org.User{ID: "ceo-1", Role: org.RoleCEO},
				org.User{ID: "manager-1", Role: org.RoleManager, ManagerID: "ceo-1"},
				org.User{ID: "user-1", Role: org.RoleUser, ManagerID: "manager-1"},
			)
			Expect(err).NotTo(HaveOccurred())
			kr := &okr.KeyResult{ID: "kr1", OwnerID: "user-1"}
			m := &okr.Milestone{ID: "m1", Status: okr.MilestoneToDo}
			mgr := &org.User{ID: "manager-1", Role: org.RoleManager, ManagerID: "ceo-1"}
			usr := &org.User{ID: "user-1", Role: org.RoleUser, ManagerID: "manager-1"}

			Expect(engine.CanAddMilestone(mgr, kr)).To(BeFalse())
			Expect(engine.CanUpdateMilestone(mgr, m, kr, small)).To(BeTrue())
			Expect(engine.CanUpdateMilestone(usr, m, kr, small)).To(BeTrue())
		})
	})

	Describe("CapabilitiesOf", func() {
		It("should summarise actor-level affordances", func() {
			caps := permission.CapabilitiesOf(engine, manager)
			Expect(caps).To(Equal(permission.Capabilities{
				ViewDashboard:    true,
				RequestObjective: true,
			}))

			Expect(permission.CapabilitiesOf(engine, nil)).To(Equal(permission.Capabilities{}))
		})
	})
})
