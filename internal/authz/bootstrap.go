package authz

import (
	"fmt"
	"strings"

	"github.com/checkout-next/internal/constants"
)

const (
	RoleAdmin    = constants.RoleAdmin
	RoleBiller   = constants.RoleBiller
	RoleCustomer = constants.RoleCustomer
)

// RouteGrant 路由前缀授权
type RouteGrant struct {
	Prefix string
	Roles  []string
}

// RouteGrants 网关路由前缀与角色对照表
// 前缀按服务段与访问段组成，前缀匹配即放行
func RouteGrants() []RouteGrant {
	all := []string{RoleAdmin, RoleBiller, RoleCustomer}
	return []RouteGrant{
		{Prefix: "/bill/admin-biller-customer", Roles: all},
		{Prefix: "/invent/admin-biller-customer", Roles: all},
		{Prefix: "/bill/admin-biller", Roles: []string{RoleAdmin, RoleBiller}},
		{Prefix: "/invent/admin-customer", Roles: []string{RoleAdmin, RoleCustomer}},
		{Prefix: "/bill/admin-customer", Roles: []string{RoleAdmin, RoleCustomer}},
		{Prefix: "/invent/biller-customer", Roles: []string{RoleBiller, RoleCustomer}},
		{Prefix: "/cart/biller-customer", Roles: []string{RoleBiller, RoleCustomer}},
		{Prefix: "/bill/biller-customer", Roles: []string{RoleBiller, RoleCustomer}},
		{Prefix: "/payment/biller-customer", Roles: []string{RoleBiller, RoleCustomer}},
		{Prefix: "/invent/admin", Roles: []string{RoleAdmin}},
		{Prefix: "/bill/admin", Roles: []string{RoleAdmin}},
		{Prefix: "/payment/admin", Roles: []string{RoleAdmin}},
		{Prefix: "/cart/admin", Roles: []string{RoleAdmin}},
		{Prefix: "/invent/biller", Roles: []string{RoleBiller}},
		{Prefix: "/cart/biller", Roles: []string{RoleBiller}},
		{Prefix: "/bill/biller", Roles: []string{RoleBiller}},
		{Prefix: "/cart/customer", Roles: []string{RoleCustomer}},
		{Prefix: "/invent/customer", Roles: []string{RoleCustomer}},
		{Prefix: "/bill/customer", Roles: []string{RoleCustomer}},
		{Prefix: "/payment/customer", Roles: []string{RoleCustomer}},
	}
}

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Policies []Policy
}

// BuiltinRoleSeeds 按路由对照表生成预置角色
func BuiltinRoleSeeds() []RoleSeed {
	order := []string{RoleAdmin, RoleBiller, RoleCustomer}
	byRole := make(map[string][]Policy, len(order))
	for _, grant := range RouteGrants() {
		for _, role := range grant.Roles {
			byRole[role] = append(byRole[role], Policy{
				Object: strings.TrimSuffix(grant.Prefix, "*") + "*",
				Action: "*",
			})
		}
	}
	seeds := make([]RoleSeed, 0, len(order))
	for _, role := range order {
		seeds = append(seeds, RoleSeed{Role: role, Policies: byRole[role]})
	}
	return seeds
}

// BootstrapBuiltinRoles 初始化预置角色与默认策略
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}

	for _, seed := range BuiltinRoleSeeds() {
		role, err := s.EnsureRole(seed.Role)
		if err != nil {
			return fmt.Errorf("create builtin role failed: %w", err)
		}
		for _, policy := range seed.Policies {
			action := NormalizeAction(policy.Action)
			if action == "" {
				return fmt.Errorf("builtin policy action is required")
			}
			if _, err := s.enforcer.AddPolicy(role, NormalizeObject(policy.Object), action); err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
		}
	}
	return nil
}
