package services

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rafabene/dermacheck-backend/internal/domain/entities"
	domainerrors "github.com/rafabene/dermacheck-backend/internal/domain/errors"
	"github.com/rafabene/dermacheck-backend/internal/domain/ports"
)

func fieldCodes(err error) map[string]string {
	var verr *domainerrors.ValidationError
	Expect(errors.As(err, &verr)).To(BeTrue(), "esperava ValidationError, obteve %v", err)
	codes := make(map[string]string, len(verr.Fields))
	for _, f := range verr.Fields {
		codes[f.Field] = f.Code
	}
	return codes
}

var _ = Describe("AuthService", func() {
	var (
		e   *env
		svc *AuthService
		ctx context.Context
	)

	BeforeEach(func() {
		e = newEnv()
		svc = e.authService()
		ctx = context.Background()
	})

	Describe("Register", func() {
		It("cria o usuário com papel user e senha em hash", func() {
			user, err := svc.Register(ctx, RegisterInput{
				Username:        "alice",
				Email:           "Alice@Example.com",
				Password:        "secret1",
				PasswordConfirm: "secret1",
				FullName:        "Alice Doe",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(user.ID).NotTo(BeEmpty())
			Expect(user.Role).To(Equal(entities.RoleUser))
			Expect(user.Email.String()).To(Equal("alice@example.com"))
			Expect(user.PasswordHash).NotTo(Equal("secret1"))
			Expect(e.hasher.Compare(user.PasswordHash, "secret1")).To(BeTrue())
		})

		It("publica user.registered", func() {
			user := e.register("alice", "alice@example.com", "secret1")

			Expect(e.events.keys).To(Equal([]string{ports.EventUserRegistered}))
			payload, ok := e.events.payloads[0].(ports.UserRegistered)
			Expect(ok).To(BeTrue())
			Expect(payload.UserID).To(Equal(user.ID))
		})

		It("não falha quando o broker está fora", func() {
			e.events.err = errors.New("broker down")
			_, err := svc.Register(ctx, RegisterInput{
				Username: "alice", Email: "alice@example.com", Password: "secret1", PasswordConfirm: "secret1",
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("devolve um erro por campo inválido", func() {
			_, err := svc.Register(ctx, RegisterInput{
				Username:        "al",
				Email:           "not-an-email",
				Password:        "123",
				PasswordConfirm: "456",
			})
			Expect(errors.Is(err, domainerrors.ErrValidation)).To(BeTrue())
			Expect(fieldCodes(err)).To(Equal(map[string]string{
				"username":         domainerrors.CodeUsernameTooShort,
				"email":            domainerrors.CodeEmailInvalid,
				"password":         domainerrors.CodePasswordTooShort,
				"password_confirm": domainerrors.CodePasswordMismatch,
			}))
		})

		It("rejeita username duplicado sem criar linha", func() {
			e.register("alice", "alice@example.com", "secret1")

			_, err := svc.Register(ctx, RegisterInput{
				Username: "alice", Email: "other@example.com", Password: "secret1", PasswordConfirm: "secret1",
			})
			Expect(fieldCodes(err)).To(HaveKeyWithValue("username", domainerrors.CodeUsernameTaken))

			total, err := e.users.Count(ctx, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(1)))
		})

		It("rejeita email duplicado ignorando maiúsculas", func() {
			e.register("alice", "alice@example.com", "secret1")

			_, err := svc.Register(ctx, RegisterInput{
				Username: "bob", Email: "ALICE@example.com", Password: "secret1", PasswordConfirm: "secret1",
			})
			Expect(fieldCodes(err)).To(HaveKeyWithValue("email", domainerrors.CodeEmailTaken))

			total, err := e.users.Count(ctx, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(1)))
		})
	})

	Describe("Login", func() {
		BeforeEach(func() {
			e.register("alice", "alice@example.com", "secret1")
		})

		It("emite uma sessão que resolve o mesmo usuário", func() {
			result, err := svc.Login(ctx, "alice", "secret1", false)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Token).NotTo(BeEmpty())
			Expect(result.Claims.Remember).To(BeFalse())

			current, err := svc.CurrentUser(ctx, result.Token)
			Expect(err).NotTo(HaveOccurred())
			Expect(current.ID).To(Equal(result.User.ID))
		})

		It("lembrar-me estende a validade", func() {
			short, err := svc.Login(ctx, "alice", "secret1", false)
			Expect(err).NotTo(HaveOccurred())
			long, err := svc.Login(ctx, "alice", "secret1", true)
			Expect(err).NotTo(HaveOccurred())

			Expect(long.Claims.Remember).To(BeTrue())
			Expect(long.Claims.ExpiresAt).To(BeTemporally(">", short.Claims.ExpiresAt))
		})

		DescribeTable("credenciais inválidas",
			func(username, password string) {
				_, err := svc.Login(ctx, username, password, false)
				Expect(err).To(MatchError(domainerrors.ErrInvalidCredentials))
			},
			Entry("senha errada", "alice", "wrong-password"),
			Entry("usuário inexistente", "nobody", "secret1"),
		)

		It("exige username e senha", func() {
			_, err := svc.Login(ctx, " ", "", false)
			Expect(fieldCodes(err)).To(Equal(map[string]string{
				"username": domainerrors.CodeFieldRequired,
				"password": domainerrors.CodeFieldRequired,
			}))
		})
	})

	Describe("CurrentUser", func() {
		It("rejeita token vazio ou adulterado", func() {
			_, err := svc.CurrentUser(ctx, "")
			Expect(err).To(MatchError(domainerrors.ErrUnauthorized))

			_, err = svc.CurrentUser(ctx, "not-a-jwt")
			Expect(err).To(MatchError(domainerrors.ErrUnauthorized))
		})

		It("invalida a sessão de um usuário removido", func() {
			user := e.register("alice", "alice@example.com", "secret1")
			result, err := svc.Login(ctx, "alice", "secret1", false)
			Expect(err).NotTo(HaveOccurred())

			Expect(e.users.Delete(ctx, user.ID)).To(Succeed())

			_, err = svc.CurrentUser(ctx, result.Token)
			Expect(err).To(MatchError(domainerrors.ErrUnauthorized))
		})

		It("reflete a mudança de papel na próxima requisição", func() {
			user := e.register("alice", "alice@example.com", "secret1")
			result, err := svc.Login(ctx, "alice", "secret1", false)
			Expect(err).NotTo(HaveOccurred())

			e.promote(user)

			current, err := svc.CurrentUser(ctx, result.Token)
			Expect(err).NotTo(HaveOccurred())
			Expect(current.IsAdmin()).To(BeTrue())
		})
	})

	Describe("CreateAdmin", func() {
		It("cria o primeiro admin", func() {
			admin, err := svc.CreateAdmin(ctx, CreateAdminInput{
				Username: "root", Email: "root@example.com", Password: "secret1",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(admin.Role).To(Equal(entities.RoleAdmin))
		})

		It("recusa quando já existe um admin", func() {
			_, err := svc.CreateAdmin(ctx, CreateAdminInput{Username: "root", Email: "root@example.com", Password: "secret1"})
			Expect(err).NotTo(HaveOccurred())

			_, err = svc.CreateAdmin(ctx, CreateAdminInput{Username: "root2", Email: "root2@example.com", Password: "secret1"})
			Expect(err).To(MatchError(domainerrors.ErrAdminAlreadyExists))
		})
	})
})
