package contracts

// Pipeline Stage 정의 (SSOT)
// 모든 로그와 실행 결과에서 이 상수를 사용해야 함
//
// 파이프라인 흐름:
//   S0 → S1 → S2 → S3 → S4
//   Universe  History  Signals  Screener  Ranker

// Stage represents a pipeline stage
type Stage string

const (
	// StageUniverse S0: 종목 목록 수집 및 변환
	// 책임: CSV/HTML 소스 파싱, 벤더 심볼 변환
	// 위치: internal/s0_universe/
	StageUniverse Stage = "S0_UNIVERSE"

	// StageHistory S1: 일봉 히스토리 수집
	// 책임: 종목별 순차 다운로드, 실패 기록, 캐시
	// 위치: internal/s1_history/
	StageHistory Stage = "S1_HISTORY"

	// StageSignals S2: 모멘텀 / 이동평균 계산
	// 책임: 날짜 정규화, 윈도우 계산, 히스토리 부족 종목 제외
	// 위치: internal/s2_signals/
	StageSignals Stage = "S2_SIGNALS"

	// StageScreener S3: 추세 필터
	// 책임: current_price > moving_average 종목만 통과
	// 위치: internal/selection/screener.go
	StageScreener Stage = "S3_SCREENER"

	// StageRanker S4: 모멘텀 순위 및 Top N 선별
	// 위치: internal/selection/ranker.go
	StageRanker Stage = "S4_RANKER"
)

// String returns the stage name
func (s Stage) String() string {
	return string(s)
}

// ShortName returns abbreviated stage name (e.g., "S0", "S1")
func (s Stage) ShortName() string {
	switch s {
	case StageUniverse:
		return "S0"
	case StageHistory:
		return "S1"
	case StageSignals:
		return "S2"
	case StageScreener:
		return "S3"
	case StageRanker:
		return "S4"
	default:
		return "UNKNOWN"
	}
}

// Description returns a human readable description of the stage
func (s Stage) Description() string {
	switch s {
	case StageUniverse:
		return "ticker universe"
	case StageHistory:
		return "daily history download"
	case StageSignals:
		return "momentum / moving average"
	case StageScreener:
		return "trend filter"
	case StageRanker:
		return "momentum ranking"
	default:
		return "unknown"
	}
}

// AllStages returns all pipeline stages in order
func AllStages() []Stage {
	return []Stage{
		StageUniverse,
		StageHistory,
		StageSignals,
		StageScreener,
		StageRanker,
	}
}

// StageResult represents the result of a pipeline stage execution
type StageResult struct {
	Stage       Stage  `json:"stage"`
	InputCount  int    `json:"input_count"`
	OutputCount int    `json:"output_count"`
	Duration    int64  `json:"duration_ms"`
	Error       string `json:"error,omitempty"`
}
