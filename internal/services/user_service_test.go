package services

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rafabene/dermacheck-backend/internal/domain/entities"
	domainerrors "github.com/rafabene/dermacheck-backend/internal/domain/errors"
	"github.com/rafabene/dermacheck-backend/internal/domain/repositories"
)

var _ = Describe("UserService", func() {
	var (
		e     *env
		svc   *UserService
		ctx   context.Context
		alice *entities.User
	)

	BeforeEach(func() {
		e = newEnv()
		svc = e.userService()
		ctx = context.Background()
		alice = e.register("alice", "alice@example.com", "secret1")
	})

	Describe("UpdateProfile", func() {
		It("mantém campos vazios e atualiza os preenchidos", func() {
			changed, err := svc.UpdateProfile(ctx, alice, UpdateProfileInput{FullName: "Alice Doe"})
			Expect(err).NotTo(HaveOccurred())
			Expect(changed).To(BeFalse())

			stored, err := svc.GetUser(ctx, alice.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(*stored.FullName).To(Equal("Alice Doe"))
			Expect(stored.Phone).To(BeNil())
			Expect(stored.Email.String()).To(Equal("alice@example.com"))
		})

		It("rejeita email já usado por outro usuário", func() {
			e.register("bob", "bob@example.com", "secret1")

			_, err := svc.UpdateProfile(ctx, alice, UpdateProfileInput{Email: "bob@example.com"})
			Expect(fieldCodes(err)).To(HaveKeyWithValue("email", domainerrors.CodeEmailTaken))
			Expect(alice.Email.String()).To(Equal("alice@example.com"))
		})

		It("aceita reenviar o próprio email", func() {
			_, err := svc.UpdateProfile(ctx, alice, UpdateProfileInput{Email: "ALICE@example.com"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("troca a senha com a senha atual correta", func() {
			changed, err := svc.UpdateProfile(ctx, alice, UpdateProfileInput{
				CurrentPassword:    "secret1",
				NewPassword:        "secret2",
				NewPasswordConfirm: "secret2",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(changed).To(BeTrue())

			stored, err := svc.GetUser(ctx, alice.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(e.hasher.Compare(stored.PasswordHash, "secret2")).To(BeTrue())
		})

		It("rejeita senha atual errada", func() {
			_, err := svc.UpdateProfile(ctx, alice, UpdateProfileInput{
				CurrentPassword:    "wrong",
				NewPassword:        "secret2",
				NewPasswordConfirm: "secret2",
			})
			Expect(fieldCodes(err)).To(HaveKeyWithValue("current_password", domainerrors.CodeCurrentPassword))
		})

		It("rejeita nova senha curta ou sem confirmação", func() {
			_, err := svc.UpdateProfile(ctx, alice, UpdateProfileInput{
				CurrentPassword:    "secret1",
				NewPassword:        "abc",
				NewPasswordConfirm: "abd",
			})
			Expect(fieldCodes(err)).To(Equal(map[string]string{
				"new_password":         domainerrors.CodePasswordTooShort,
				"new_password_confirm": domainerrors.CodePasswordMismatch,
			}))
		})

		It("ignora a nova senha sem a senha atual", func() {
			changed, err := svc.UpdateProfile(ctx, alice, UpdateProfileInput{NewPassword: "secret2"})
			Expect(err).NotTo(HaveOccurred())
			Expect(changed).To(BeFalse())
		})
	})

	Describe("CreateUser e UpdateUser", func() {
		It("cria um admin pelo formulário", func() {
			user, err := svc.CreateUser(ctx, AdminUserInput{
				Username: "carol", Email: "carol@example.com", Password: "secret1", PasswordConfirm: "secret1",
				Phone: "+62 811", Role: "admin",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(user.Role).To(Equal(entities.RoleAdmin))
			Expect(*user.Phone).To(Equal("+62 811"))
		})

		It("papel vazio vira user e papel desconhecido é rejeitado", func() {
			user, err := svc.CreateUser(ctx, AdminUserInput{
				Username: "carol", Email: "carol@example.com", Password: "secret1", PasswordConfirm: "secret1",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(user.Role).To(Equal(entities.RoleUser))

			_, err = svc.CreateUser(ctx, AdminUserInput{
				Username: "dave", Email: "dave@example.com", Password: "secret1", PasswordConfirm: "secret1", Role: "root",
			})
			Expect(fieldCodes(err)).To(HaveKeyWithValue("role", domainerrors.CodeRoleInvalid))
		})

		It("edição mantém a senha quando o campo vem vazio", func() {
			updated, err := svc.UpdateUser(ctx, "", alice.ID, AdminUserInput{
				Username: "alice2", Email: "alice2@example.com", Role: "user",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Username).To(Equal("alice2"))
			Expect(e.hasher.Compare(updated.PasswordHash, "secret1")).To(BeTrue())
		})

		It("edição verifica unicidade contra outros usuários", func() {
			e.register("bob", "bob@example.com", "secret1")

			_, err := svc.UpdateUser(ctx, "", alice.ID, AdminUserInput{
				Username: "bob", Email: "alice@example.com", Role: "user",
			})
			Expect(fieldCodes(err)).To(HaveKeyWithValue("username", domainerrors.CodeUsernameTaken))
		})

		It("admin edita a própria conta mas não o próprio papel", func() {
			admin := e.register("root", "root@example.com", "secret1")
			e.promote(admin)

			_, err := svc.UpdateUser(ctx, admin.ID, admin.ID, AdminUserInput{
				Username: "root", Email: "root@example.com", Role: "user",
			})
			Expect(err).To(MatchError(domainerrors.ErrSelfModification))

			stored, err := e.users.FindByID(ctx, admin.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Role).To(Equal(entities.RoleAdmin))

			updated, err := svc.UpdateUser(ctx, admin.ID, admin.ID, AdminUserInput{
				Username: "root", Email: "root@example.com", FullName: "Root Admin", Role: "admin",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(*updated.FullName).To(Equal("Root Admin"))
		})

		It("edição de usuário inexistente", func() {
			_, err := svc.UpdateUser(ctx, "", "missing", AdminUserInput{Username: "x12", Email: "x@example.com"})
			Expect(err).To(MatchError(domainerrors.ErrUserNotFound))
		})
	})

	Describe("ToggleRole", func() {
		It("alterna user e admin", func() {
			admin := e.register("root", "root@example.com", "secret1")
			e.promote(admin)

			updated, err := svc.ToggleRole(ctx, admin.ID, alice.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Role).To(Equal(entities.RoleAdmin))

			updated, err = svc.ToggleRole(ctx, admin.ID, alice.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Role).To(Equal(entities.RoleUser))
		})

		It("recusa alterar o próprio papel", func() {
			e.promote(alice)

			_, err := svc.ToggleRole(ctx, alice.ID, alice.ID)
			Expect(err).To(MatchError(domainerrors.ErrSelfModification))

			stored, err := svc.GetUser(ctx, alice.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.IsAdmin()).To(BeTrue())
		})
	})

	Describe("DeleteUser", func() {
		It("remove o usuário e o histórico", func() {
			admin := e.register("root", "root@example.com", "secret1")
			e.promote(admin)
			e.addPrediction(alice.ID, "Melanoma", 0.9)
			e.addPrediction(alice.ID, "Nevus", 0.6)

			Expect(svc.DeleteUser(ctx, admin.ID, alice.ID)).To(Succeed())

			_, err := svc.GetUser(ctx, alice.ID)
			Expect(err).To(MatchError(domainerrors.ErrUserNotFound))

			remaining, err := e.predictions.Count(ctx, repositories.PredictionCountFilters{UserID: alice.ID})
			Expect(err).NotTo(HaveOccurred())
			Expect(remaining).To(BeZero())
		})

		It("recusa remover a própria conta", func() {
			Expect(svc.DeleteUser(ctx, alice.ID, alice.ID)).To(MatchError(domainerrors.ErrSelfModification))
		})

		It("usuário inexistente", func() {
			Expect(svc.DeleteUser(ctx, alice.ID, "missing")).To(MatchError(domainerrors.ErrUserNotFound))
		})
	})

	Describe("ListUsers", func() {
		It("filtra por papel e busca com página fixa", func() {
			e.register("bob", "bob@example.com", "secret1")
			role := entities.RoleUser

			page, err := svc.ListUsers(ctx, repositories.UserFilters{Role: &role, Search: "ALI"})
			Expect(err).NotTo(HaveOccurred())
			Expect(page.PageSize).To(Equal(UsersPageSize))
			Expect(page.Items).To(HaveLen(1))
			Expect(page.Items[0].Username).To(Equal("alice"))
		})
	})
})
