package services

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rafabene/dermacheck-backend/internal/domain/entities"
	domainerrors "github.com/rafabene/dermacheck-backend/internal/domain/errors"
	"github.com/rafabene/dermacheck-backend/internal/domain/repositories"
)

var _ = Describe("ReportService", func() {
	var (
		e     *env
		svc   *ReportService
		ctx   context.Context
		alice *entities.User
		bob   *entities.User
	)

	BeforeEach(func() {
		e = newEnv()
		svc = e.reportService()
		ctx = context.Background()

		admin := e.register("root", "root@example.com", "secret1")
		e.promote(admin)
		alice = e.register("alice", "alice@example.com", "secret1")
		bob = e.register("bob", "bob@example.com", "secret1")
	})

	Describe("Dashboard", func() {
		It("conta usuários, predições e ranking de classes", func() {
			e.addPrediction(alice.ID, "Melanoma", 0.9)
			e.addPrediction(alice.ID, "Melanoma", 0.8)
			e.addPrediction(bob.ID, "Nevus", 0.7)

			d, err := svc.Dashboard(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(d.TotalUsers).To(Equal(int64(3)))
			Expect(d.TotalAdmins).To(Equal(int64(1)))
			Expect(d.TotalRegularUsers).To(Equal(int64(2)))
			Expect(d.UsersThisWeek).To(Equal(int64(3)))
			Expect(d.TotalPredictions).To(Equal(int64(3)))
			Expect(d.PredictionsThisWeek).To(Equal(int64(3)))
			Expect(d.PredictionsToday).To(Equal(int64(3)))
			Expect(d.TopPredictions).To(Equal([]repositories.ClassCount{
				{Class: "Melanoma", Count: 2},
				{Class: "Nevus", Count: 1},
			}))

			Expect(d.RecentPredictions).To(HaveLen(3))
			for _, p := range d.RecentPredictions {
				Expect(p.User).NotTo(BeNil())
			}
		})

		It("predições de hoje seguem o fuso configurado", func() {
			e.addPrediction(alice.ID, "Nevus", 0.7)

			// Um dia depois, nada foi feito "hoje", mas a semana ainda conta
			svc.now = func() time.Time { return time.Now().Add(24 * time.Hour) }

			d, err := svc.Dashboard(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(d.PredictionsToday).To(BeZero())
			Expect(d.PredictionsThisWeek).To(Equal(int64(1)))
		})
	})

	Describe("UserDetail", func() {
		It("traz o histórico e as contagens do usuário", func() {
			e.addPrediction(alice.ID, "Melanoma", 0.9)
			e.addPrediction(bob.ID, "Nevus", 0.7)

			detail, err := svc.UserDetail(ctx, alice.ID, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(detail.User.ID).To(Equal(alice.ID))
			Expect(detail.TotalPredictions).To(Equal(int64(1)))
			Expect(detail.PredictionsThisWeek).To(Equal(int64(1)))
			Expect(detail.Predictions.Items).To(HaveLen(1))
		})

		It("usuário inexistente", func() {
			_, err := svc.UserDetail(ctx, "missing", 1)
			Expect(err).To(MatchError(domainerrors.ErrUserNotFound))
		})
	})

	Describe("GroupedPredictions", func() {
		BeforeEach(func() {
			e.addPrediction(alice.ID, "Melanoma", 0.9)
			e.addPrediction(alice.ID, "Nevus", 0.6)
			e.addPrediction(bob.ID, "Nevus", 0.7)
		})

		It("agrupa por usuário em ordem de username com as classes distintas", func() {
			view, err := svc.GroupedPredictions(ctx, 1, "", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Groups.PageSize).To(Equal(GroupedUsersPageSize))
			Expect(view.Groups.Items).To(HaveLen(2))
			Expect(view.Groups.Items[0].User.Username).To(Equal("alice"))
			Expect(view.Groups.Items[0].Predictions).To(HaveLen(2))
			Expect(view.Classes).To(Equal([]string{"Melanoma", "Nevus"}))
		})

		It("classe filtra usuários e predições listadas", func() {
			view, err := svc.GroupedPredictions(ctx, 1, "", "Melanoma")
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Groups.Items).To(HaveLen(1))
			Expect(view.Groups.Items[0].User.ID).To(Equal(alice.ID))
			Expect(view.Groups.Items[0].Predictions).To(HaveLen(1))
			Expect(view.Groups.Items[0].Predictions[0].PredictedClass).To(Equal("Melanoma"))
		})

		It("busca filtra somente usuários, sem recorrer ao nome da classe", func() {
			view, err := svc.GroupedPredictions(ctx, 1, "  BOB ", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Search).To(Equal("BOB"))
			Expect(view.Groups.Items).To(HaveLen(1))
			Expect(view.Groups.Items[0].User.ID).To(Equal(bob.ID))

			view, err = svc.GroupedPredictions(ctx, 1, "melanoma", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Groups.Items).To(BeEmpty())
			Expect(view.Groups.Total).To(BeZero())
		})
	})
})
