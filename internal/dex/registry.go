// Package dex is the per-chain router/factory registry used to attribute a
// decoded swap to a specific DEX protocol.
// Addresses are grounded on original_source/src/utils/dex_factories.rs; only
// a representative subset is embedded since the full address list is a data
// resource rather than an algorithm.
package dex

import "strings"

// Info names a DEX protocol and version. Version may be empty.
type Info struct {
	Name    string
	Version string
}

// DisplayName renders "Name Version", or just "Name" when Version is empty.
func (i Info) DisplayName() string {
	if i.Version == "" {
		return i.Name
	}
	return i.Name + " " + i.Version
}

// UnknownDex is the label used when a router/factory address misses the
// registry; the swap/creation record is still emitted.
const UnknownDex = "Unknown DEX"

type chainTable map[string]Info // address (lowercase) -> Info

// Registry holds the router and factory maps for every configured chain.
type Registry struct {
	routers   map[uint64]chainTable
	factories map[uint64]chainTable
}

func norm(addr string) string {
	return strings.ToLower(addr)
}

// NewRegistry builds the static router/factory tables.
func NewRegistry() *Registry {
	r := &Registry{
		routers:   map[uint64]chainTable{},
		factories: map[uint64]chainTable{},
	}

	// Ethereum (chain id 1).
	r.routers[1] = chainTable{
		norm("0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D"): {Name: "Uniswap", Version: "V2"},
		norm("0xE592427A0AEce92De3Edee1F18E0157C05861564"): {Name: "Uniswap", Version: "V3"},
		norm("0x68b3465833fb72A70ecDF485E0e4C7bD8665Fc45"): {Name: "Uniswap", Version: "V3"},
		norm("0xd9e1cE17f2641f24aE83637ab66a2cca9C378B9F"): {Name: "SushiSwap", Version: "V2"},
		norm("0xBA12222222228d8Ba445958a75a0704d566BF2C8"): {Name: "Balancer", Version: "V2"},
		norm("0x99a58482BD7f6B857d7E1f08Cd40A4c2a0b3053f"): {Name: "Curve", Version: "V1"},
		norm("0x4c6e1eF2D04b53d1b16014ceEd20e13f1e00e27F"): {Name: "Curve", Version: "V2"},
	}
	r.factories[1] = chainTable{
		norm("0x5C69bEe701ef814a2B6a3EDD4B1652CB9cc5aA6f"): {Name: "Uniswap", Version: "V2"},
		norm("0x1F98431c8aD98523631AE4a59f267346ea31F984"): {Name: "Uniswap", Version: "V3"},
	}

	// BSC (chain id 56).
	r.routers[56] = chainTable{
		norm("0x10ED43C718714eb63d5aA57B78B54704E256024E"): {Name: "PancakeSwap", Version: "V2"},
		norm("0x13f4EA83D0bd40E75C8222255bc855a974568Dd4"): {Name: "PancakeSwap", Version: "V3"},
	}
	r.factories[56] = chainTable{
		norm("0xcA143Ce32Fe78f1f7019d7d551a6402fC5350c73"): {Name: "PancakeSwap", Version: "V2"},
		norm("0x0BFbCF9fa4f9C56B0F40a671Ad40E0805A091865"): {Name: "PancakeSwap", Version: "V3"},
	}

	// Polygon (chain id 137).
	r.routers[137] = chainTable{
		norm("0xa5E0829CaCEd8fFDD4De3c43696c57F7D7A678ff"): {Name: "QuickSwap", Version: "V2"},
		norm("0xE592427A0AEce92De3Edee1F18E0157C05861564"): {Name: "Uniswap", Version: "V3"},
	}
	r.factories[137] = chainTable{
		norm("0x5757371414417b8C6CAad45bAeF941aBc7d3Ab32"): {Name: "QuickSwap", Version: "V2"},
	}

	return r
}

// RouterInfo looks up a transaction recipient in the router registry.
// Miss reports ok=false; callers attribute UnknownDex in that case.
func (r *Registry) RouterInfo(chainID uint64, to string) (Info, bool) {
	table, ok := r.routers[chainID]
	if !ok {
		return Info{}, false
	}
	info, ok := table[norm(to)]
	return info, ok
}

// FactoryInfo looks up a newly-created contract's deployer in the factory
// registry, used to name pools discovered via create-traces.
func (r *Registry) FactoryInfo(chainID uint64, factory string) (Info, bool) {
	table, ok := r.factories[chainID]
	if !ok {
		return Info{}, false
	}
	info, ok := table[norm(factory)]
	return info, ok
}
