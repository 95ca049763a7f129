package seed_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/frahmantamala/okr-dashboard/db"
	"github.com/frahmantamala/okr-dashboard/internal"
	okrmodel "github.com/frahmantamala/okr-dashboard/internal/core/datamodel/okr"
	orgmodel "github.com/frahmantamala/okr-dashboard/internal/core/datamodel/org"
	"github.com/frahmantamala/okr-dashboard/internal/core/okr"
	"github.com/frahmantamala/okr-dashboard/internal/core/org"
	"github.com/frahmantamala/okr-dashboard/internal/seed"
)

var _ = Describe("Dataset", func() {
	var ds *seed.Dataset

	BeforeEach(func() {
		var err error
		ds, err = seed.Default()
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Directory", func() {
		It("should build the demo organization", func() {
			dir, err := ds.Directory()
			Expect(err).NotTo(HaveOccurred())
			Expect(dir.Len()).To(Equal(5))

			root, ok := dir.Root()
			Expect(ok).To(BeTrue())
			Expect(root.ID).To(Equal("ceo-1"))
			Expect(root.Role).To(Equal(org.RoleCEO))

			hr, ok := dir.FindUser("hr-1")
			Expect(ok).To(BeTrue())
			Expect(hr.IsAdmin).To(BeTrue())
			Expect(hr.Role).To(Equal(org.RoleHR))

			Expect(dir.IsManagerOf("manager-1", "user-1")).To(BeTrue())
			Expect(dir.IsManagerOf("manager-1", "user-2")).To(BeTrue())
		})

		It("should reject reporting cycles", func() {
			bad, err := seed.Parse([]byte(`
users:
  - {id: a, name: A, role: ceo, manager_id: b}
  - {id: b, name: B, role: manager, manager_id: a}
`))
			Expect(err).NotTo(HaveOccurred())

			_, err = bad.Directory()
			Expect(err).To(HaveOccurred())
		})

		It("should reject unknown roles", func() {
			bad, err := seed.Parse([]byte(`
users:
  - {id: a, name: A, role: owner}
`))
			Expect(err).NotTo(HaveOccurred())

			_, err = bad.Directory()
			Expect(err).To(MatchError(org.ErrInvalidRole))
		})
	})

	Describe("Graph", func() {
		It("should build the demo objective tree", func() {
			graph, err := ds.Graph()
			Expect(err).NotTo(HaveOccurred())
			Expect(graph.Objectives).To(HaveLen(3))

			kr, parent := graph.FindKeyResult("kr1")
			Expect(kr).NotTo(BeNil())
			Expect(parent.ID).To(Equal("1"))
			Expect(kr.OwnerID).To(Equal("user-1"))
			Expect(kr.Milestones).To(HaveLen(3))
			Expect(kr.Milestones[0].Status).To(Equal(okr.MilestoneDone))
			Expect(kr.Milestones[0].Attachments).To(ConsistOf(okr.Attachment{
				Name: "campaign-brief.pdf", Size: 245760, MimeType: "application/pdf",
			}))
			Expect(kr.Milestones[2].Status).To(Equal(okr.MilestoneToDo))

			Expect(graph.KeyResultsOwnedBy("user-2")).To(HaveLen(2))
		})

		It("should default missing milestone status to To-Do", func() {
			custom, err := seed.Parse([]byte(`
users:
  - {id: a, name: A, role: ceo}
objectives:
  - id: "9"
    title: T
    owner: a
    key_results:
      - id: k
        title: K
        owner: a
        milestones:
          - {id: m1, title: M}
`))
			Expect(err).NotTo(HaveOccurred())

			graph, err := custom.Graph()
			Expect(err).NotTo(HaveOccurred())
			m, _ := graph.FindMilestone("k", "m1")
			Expect(m.Status).To(Equal(okr.MilestoneToDo))
			Expect(graph.FindObjective("9").Status).To(Equal(okr.ObjectivePending))
		})

		It("should reject unknown statuses", func() {
			custom, err := seed.Parse([]byte(`
users:
  - {id: a, name: A, role: ceo}
objectives:
  - {id: "9", title: T, owner: a, status: blocked}
`))
			Expect(err).NotTo(HaveOccurred())

			_, err = custom.Graph()
			Expect(err).To(MatchError(seed.ErrInvalidDataset))
		})
	})

	Describe("Credentials", func() {
		It("should list only users with an email", func() {
			Expect(ds.Credentials()).To(Equal(map[string]string{
				"ceo@iqbas.org":     "ceo-1",
				"manager@iqbas.org": "manager-1",
				"user@iqbas.org":    "user-1",
				"hr@iqbas.org":      "hr-1",
			}))
		})
	})

	Describe("Load", func() {
		It("should fall back to the embedded dataset", func() {
			loaded, err := seed.Load("")
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.Users).To(HaveLen(5))
		})

		It("should read a file", func() {
			path := filepath.Join(GinkgoT().TempDir(), "seed.yml")
			Expect(os.WriteFile(path, []byte("users:\n  - {id: solo, name: Solo, role: ceo}\n"), 0o600)).To(Succeed())

			loaded, err := seed.Load(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.Users).To(HaveLen(1))
		})

		It("should reject an empty dataset", func() {
			_, err := seed.Parse([]byte("objectives: []\n"))
			Expect(err).To(MatchError(seed.ErrInvalidDataset))
		})
	})

	Describe("Apply", func() {
		var (
			gdb *gorm.DB
			ctx context.Context
			n   int
		)

		BeforeEach(func() {
			n++
			ctx = context.Background()
			var err error
			gdb, err = db.Open(internal.DatabaseConfig{
				Driver:       internal.DriverSQLite,
				Source:       fmt.Sprintf("file:seed_%d?mode=memory&cache=shared", n),
				MaxOpenConns: 1,
				MaxIdleConns: 1,
			})
			Expect(err).NotTo(HaveOccurred())
			sqlDB, err := gdb.DB()
			Expect(err).NotTo(HaveOccurred())
			Expect(db.Migrate(ctx, sqlDB, internal.DriverSQLite)).To(Succeed())
			DeferCleanup(sqlDB.Close)
		})

		count := func(model interface{}) int64 {
			var c int64
			Expect(gdb.Model(model).Count(&c).Error).To(Succeed())
			return c
		}

		It("should write the whole dataset", func() {
			Expect(ds.Apply(ctx, gdb, false)).To(Succeed())

			Expect(count(&orgmodel.User{})).To(Equal(int64(5)))
			Expect(count(&okrmodel.Objective{})).To(Equal(int64(3)))
			Expect(count(&okrmodel.KeyResult{})).To(Equal(int64(4)))
			Expect(count(&okrmodel.Milestone{})).To(Equal(int64(9)))
			Expect(count(&okrmodel.Attachment{})).To(Equal(int64(1)))

			var root orgmodel.User
			Expect(gdb.First(&root, "id = ?", "ceo-1").Error).To(Succeed())
			Expect(root.ManagerID).To(BeNil())
		})

		It("should leave an already seeded database alone", func() {
			Expect(ds.Apply(ctx, gdb, false)).To(Succeed())
			Expect(ds.Apply(ctx, gdb, false)).To(Succeed())
			Expect(count(&orgmodel.User{})).To(Equal(int64(5)))
		})

		It("should replace existing rows when clearing", func() {
			Expect(ds.Apply(ctx, gdb, false)).To(Succeed())
			Expect(gdb.Delete(&okrmodel.Objective{}, "id = ?", "3").Error).To(Succeed())

			Expect(ds.Apply(ctx, gdb, true)).To(Succeed())
			Expect(count(&okrmodel.Objective{})).To(Equal(int64(3)))
		})
	})
})
