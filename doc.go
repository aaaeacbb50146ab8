/*
Package lookmate is the closet, looks and public feed backend plus the
client core used by the lookmate command line.

Project structure:

lookmate-backend/
├── cmd/
│   ├── server/
│   │   └── main.go          REST API server
│   └── lookmate/
│       └── main.go          command line client (local or backend mode)
├── internal/
│   ├── config/
│   │   ├── config.go
│   │   └── database.go
│   ├── models/
│   │   ├── user.go
│   │   ├── clothing.go
│   │   ├── look.go
│   │   ├── public_look.go
│   │   ├── product.go
│   │   ├── audit_log.go
│   │   └── common.go
│   ├── handlers/
│   │   ├── auth.go
│   │   ├── user.go
│   │   ├── closet.go
│   │   ├── look.go
│   │   ├── public_look.go
│   │   ├── product.go
│   │   ├── ai.go
│   │   └── common.go
│   ├── services/
│   │   ├── auth_service.go
│   │   ├── user_service.go
│   │   ├── closet_service.go
│   │   ├── look_service.go
│   │   ├── public_look_service.go
│   │   ├── product_service.go
│   │   ├── storage_service.go
│   │   └── ai_service.go
│   ├── middleware/
│   │   ├── auth.go
│   │   ├── cors.go
│   │   ├── rate_limit.go
│   │   ├── i18n.go
│   │   ├── logging.go
│   │   └── upload.go
│   ├── database/
│   │   ├── connection.go
│   │   └── seed.go
│   ├── i18n/
│   │   ├── i18n.go
│   │   ├── locales/
│   │   │   ├── en.json
│   │   │   └── ko.json
│   │   └── keys.go
│   ├── utils/
│   │   ├── jwt.go
│   │   ├── validator.go
│   │   ├── crypto.go
│   │   ├── pagination.go
│   │   └── response.go
│   ├── metrics/             Prometheus collectors
│   ├── recommend/           outfit recommendation
│   ├── fitting/             layer composition for the fitting room
│   ├── snapshot/            look snapshot rendering
│   ├── client/              repositories and app state for clients
│   ├── router/
│   │   └── router.go
│   └── tests/               HTTP integration tests
├── go.mod
└── go.sum
*/

package lookmate
