package service

import (
	"matrixadmin.app/panel/core/config"
	"matrixadmin.app/panel/internal/events"
	"matrixadmin.app/panel/internal/store"
)

type Services struct {
	stores    *store.Stores
	txRunner  TxRunner
	publisher events.Publisher
	workOSCfg config.WorkOSConfig
}

func NewServices(stores *store.Stores, txRunner TxRunner, publisher events.Publisher, workOSCfg config.WorkOSConfig) *Services {
	return &Services{
		stores:    stores,
		txRunner:  txRunner,
		publisher: publisher,
		workOSCfg: workOSCfg,
	}
}

func (s *Services) Auth() AuthService {
	return NewAuthService(
		s.stores.Users(),
		s.stores.Sessions(),
		s.publisher,
		s.workOSCfg,
	)
}

func (s *Services) Authorization() AuthorizationService {
	return NewAuthorizationService(s.stores.Members())
}

func (s *Services) Companies() CompanyService {
	return NewCompanyService(s.stores.Organizations(), s.Authorization(), s.txRunner)
}
