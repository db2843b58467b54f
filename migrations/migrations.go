// Package migrations встраивает SQL миграции в бинарник.
package migrations

import "embed"

// Storefront - миграции схемы хранилища снимков витрины.
//
//go:embed storefront/*.sql
var Storefront embed.FS

// StorefrontDir - каталог миграций внутри Storefront.
const StorefrontDir = "storefront"
