package store

import (
	"context"

	"github.com/suporte-ti/helpdesk/internal/domain"
	"github.com/suporte-ti/helpdesk/pkg/util"
)

// DefaultProblemTypes returns the fixed reference categories seeded at
// first run. Names are kept in Portuguese as shipped to end users.
func DefaultProblemTypes() []domain.ProblemType {
	return []domain.ProblemType{
		{ID: "1", Name: "Problemas com Internet / Conexão de Rede", IsActive: true},
		{ID: "2", Name: "Impressora com Defeito", IsActive: true},
		{ID: "3", Name: "Problemas no Computador (sistema lento, travamentos, etc.)", IsActive: true},
		{ID: "4", Name: "Manutenção de Hardware", IsActive: true},
		{ID: "5", Name: "Instalação de Software", IsActive: true},
		{ID: "6", Name: "Acesso a Sistemas (login, senha, permissões)", IsActive: true},
		{ID: "7", Name: "Atualização de Software / Sistema Operacional", IsActive: true},
		{ID: "8", Name: "Configuração de E-mail ou Conta", IsActive: true},
		{ID: "9", Name: "Outros", IsActive: true},
	}
}

// Initialize seeds the problem-type reference data and empty
// collections. Idempotent: keys that already exist are left untouched.
func Initialize(ctx context.Context, kv KV) error {
	if _, ok, err := kv.Get(ctx, KeyProblemTypes); err != nil {
		return util.NewStorageError("read "+KeyProblemTypes, err)
	} else if !ok {
		if err := WriteCollection(ctx, kv, KeyProblemTypes, DefaultProblemTypes()); err != nil {
			return err
		}
	}

	for _, key := range []string{KeyUsers, KeyProfiles, KeyTickets, KeyHistory} {
		_, ok, err := kv.Get(ctx, key)
		if err != nil {
			return util.NewStorageError("read "+key, err)
		}
		if ok {
			continue
		}
		if err := WriteCollection(ctx, kv, key, []struct{}{}); err != nil {
			return err
		}
	}
	return nil
}
