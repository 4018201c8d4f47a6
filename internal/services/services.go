// Package services 提供业务流程编排
//
// Service 层负责协调多个领域模块，实现应用级用例。
// 它不包含核心业务逻辑（在 Domain 层），而是编排和协调。
//
// 职责：
//   - 编排推荐引擎、存储、天气等模块协作
//   - 实现推荐、交互记录、洞察等应用级用例
//   - 处理持久化降级和错误
//   - 与 App 层交互

package services
