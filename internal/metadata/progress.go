package metadata

import "github.com/On-Jun9/dngprobe/pkg/types"

type ProgressCallback func(event types.LoadEvent)
