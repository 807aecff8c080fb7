package auth

import (
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/tu-usuario/facturas-pro/internal/application/dto"
	"github.com/tu-usuario/facturas-pro/internal/domain"
	"github.com/tu-usuario/facturas-pro/internal/domain/repository"
	"github.com/tu-usuario/facturas-pro/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// UseCase caso de uso de autenticación.
type UseCase struct {
	responsables repository.ResponsableRepository
	jwtCfg       JWTConfig
}

// NewUseCase construye el caso de uso de auth.
func NewUseCase(responsables repository.ResponsableRepository, jwtCfg JWTConfig) *UseCase {
	return &UseCase{responsables: responsables, jwtCfg: jwtCfg}
}

// Login autentica por username/password y emite el JWT con el rol embebido.
// Para no filtrar qué usernames existen, credenciales malas y usuario
// inexistente retornan el mismo ErrNoAutorizado.
func (uc *UseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	username := strings.ToLower(strings.TrimSpace(in.Username))
	r, err := uc.responsables.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNoAutorizado
	}
	if !r.Activo {
		return nil, domain.ErrUsuarioInactivo
	}
	if err := bcrypt.CompareHashAndPassword([]byte(r.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrNoAutorizado
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, r.ID, r.Username, r.Rol,
		uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		Responsable: dto.ResponsableResponse{
			ID:        r.ID,
			Username:  r.Username,
			Nombre:    r.Nombre,
			Email:     r.Email,
			Rol:       r.Rol,
			Grupos:    r.Grupos,
			Activo:    r.Activo,
			CreatedAt: r.CreatedAt,
		},
	}, nil
}
