// Copyright 2023 The zkwasm-busmapping Authors
// This file is part of the zkwasm-busmapping library.
//
// The zkwasm-busmapping library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The zkwasm-busmapping library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the zkwasm-busmapping library. If not, see <http://www.gnu.org/licenses/>.

package builder

import "github.com/ethereum/go-ethereum/metrics"

var (
	opsAppendedCounter = metrics.NewRegisteredCounter("busmapping/ops", nil)
	copyEventCounter   = metrics.NewRegisteredCounter("busmapping/copyevents", nil)
	reversionCounter   = metrics.NewRegisteredCounter("busmapping/reversions", nil)
	txProcessedCounter = metrics.NewRegisteredCounter("busmapping/txs", nil)
)
