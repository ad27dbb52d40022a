package web

import "github.com/EgorLis/mdshare/internal/domain"

type Repos struct {
	Users domain.UsersRepo
	Docs  domain.DocsRepo
}

type AuthDeps struct {
	Hasher    domain.PasswordHasher
	Tokens    domain.TokenManager
	Blacklist domain.TokenBlacklist
}
