/*
File    : mana/emitter/runtime.go
*/
package emitter

// RuntimeHeaderName is the include name the emitted program expects next
// to it.
const RuntimeHeaderName = "mana_runtime.h"

// RuntimeHeader is the accompanying runtime the emitted C++ compiles
// against. Its content is fixed by the emitter: it provides Option,
// Result, Vec, HashMap, print/format, string and math helpers, slicing,
// the scope guard backing defer, and the assertion set.
const RuntimeHeader = `// mana_runtime.h - fixed runtime for emitted programs
#pragma once

#include <algorithm>
#include <array>
#include <chrono>
#include <cmath>
#include <cstdint>
#include <cstdlib>
#include <fstream>
#include <functional>
#include <iostream>
#include <random>
#include <sstream>
#include <stdexcept>
#include <string>
#include <thread>
#include <unordered_map>
#include <vector>

namespace mana {

// ---------------------------------------------------------------------
// Option<T>
// ---------------------------------------------------------------------
struct NoneType {};
inline constexpr NoneType None{};

template <typename T>
class Option {
public:
    Option() : has_(false) {}
    Option(NoneType) : has_(false) {}
    Option(const T& value) : has_(true), value_(value) {}

    bool is_some() const { return has_; }
    bool is_none() const { return !has_; }
    const T& unwrap() const {
        if (!has_) throw std::runtime_error("unwrap on None");
        return value_;
    }
    T unwrap_or(const T& fallback) const { return has_ ? value_ : fallback; }

    bool __is_err() const { return !has_; }
    const T& __unwrap_ok() const { return unwrap(); }
    NoneType __unwrap_err() const { return None; }

private:
    bool has_;
    T value_{};
};

template <typename T>
Option<T> Some(const T& value) { return Option<T>(value); }

template <typename T>
Option<T> make_none() { return Option<T>(); }

// Single-branch accessor backing the ?? operator
template <typename T>
T opt_or(const Option<T>& opt, const T& fallback) { return opt.unwrap_or(fallback); }

// ---------------------------------------------------------------------
// Result<T, E>
// ---------------------------------------------------------------------
template <typename T>
struct OkValue { T value; };
template <typename E>
struct ErrValue { E error; };

template <typename T>
OkValue<T> Ok(const T& value) { return OkValue<T>{value}; }
template <typename E>
ErrValue<E> Err(const E& error) { return ErrValue<E>{error}; }

template <typename T, typename E>
class Result {
public:
    Result(const OkValue<T>& ok) : ok_(true), value_(ok.value) {}
    Result(const ErrValue<E>& err) : ok_(false), error_(err.error) {}

    bool is_ok() const { return ok_; }
    bool is_err() const { return !ok_; }
    const T& unwrap() const {
        if (!ok_) throw std::runtime_error("unwrap on Err");
        return value_;
    }
    const E& unwrap_err() const {
        if (ok_) throw std::runtime_error("unwrap_err on Ok");
        return error_;
    }
    T unwrap_or(const T& fallback) const { return ok_ ? value_ : fallback; }

    bool __is_err() const { return !ok_; }
    const T& __unwrap_ok() const { return unwrap(); }
    const E& __unwrap_err() const { return unwrap_err(); }

private:
    bool ok_;
    T value_{};
    E error_{};
};

// ---------------------------------------------------------------------
// Vec<T> and HashMap<K, V>
// ---------------------------------------------------------------------
template <typename T = int64_t>
class Vec {
public:
    Vec() = default;
    Vec(std::initializer_list<T> init) : data_(init) {}

    void push(const T& value) { data_.push_back(value); }
    Option<T> pop() {
        if (data_.empty()) return Option<T>();
        T last = data_.back();
        data_.pop_back();
        return Some(last);
    }
    int64_t size() const { return static_cast<int64_t>(data_.size()); }
    bool empty() const { return data_.empty(); }
    T& at(int64_t index) { return data_.at(static_cast<size_t>(index)); }
    const T& at(int64_t index) const { return data_.at(static_cast<size_t>(index)); }
    bool contains(const T& value) const {
        return std::find(data_.begin(), data_.end(), value) != data_.end();
    }
    void reverse() { std::reverse(data_.begin(), data_.end()); }
    void sort() { std::sort(data_.begin(), data_.end()); }

    auto begin() { return data_.begin(); }
    auto end() { return data_.end(); }
    auto begin() const { return data_.begin(); }
    auto end() const { return data_.end(); }

    std::vector<T> data_;
};

template <typename K = std::string, typename V = int64_t>
class HashMap {
public:
    HashMap() = default;

    void insert(const K& key, const V& value) { data_[key] = value; }
    Option<V> get(const K& key) const {
        auto it = data_.find(key);
        if (it == data_.end()) return Option<V>();
        return Some(it->second);
    }
    bool contains_key(const K& key) const { return data_.count(key) > 0; }
    void remove(const K& key) { data_.erase(key); }
    int64_t size() const { return static_cast<int64_t>(data_.size()); }

    auto begin() { return data_.begin(); }
    auto end() { return data_.end(); }
    auto begin() const { return data_.begin(); }
    auto end() const { return data_.end(); }

    std::unordered_map<K, V> data_;
};

// ---------------------------------------------------------------------
// Scope guard backing defer
// ---------------------------------------------------------------------
class ScopeGuard {
public:
    explicit ScopeGuard(std::function<void()> fn) : fn_(std::move(fn)) {}
    ~ScopeGuard() { if (fn_) fn_(); }
    ScopeGuard(const ScopeGuard&) = delete;
    ScopeGuard& operator=(const ScopeGuard&) = delete;

private:
    std::function<void()> fn_;
};

// ---------------------------------------------------------------------
// Printing and formatting
// ---------------------------------------------------------------------
inline std::string to_string(const std::string& s) { return s; }
inline std::string to_string(const char* s) { return s; }
inline std::string to_string(bool b) { return b ? "true" : "false"; }
template <typename T>
std::string to_string(const T& value) {
    std::ostringstream oss;
    oss << value;
    return oss.str();
}
template <typename T>
std::string to_string(const Option<T>& opt) {
    return opt.is_some() ? "Some(" + to_string(opt.unwrap()) + ")" : "None";
}

template <typename T>
void print(const T& value) { std::cout << to_string(value); }
inline void println() { std::cout << std::endl; }
template <typename T>
void println(const T& value) { std::cout << to_string(value) << std::endl; }

inline std::string format(const std::string& s) { return s; }
template <typename T, typename... Rest>
std::string format(const std::string& fmt, const T& first, Rest... rest) {
    size_t pos = fmt.find("{}");
    if (pos == std::string::npos) return fmt;
    return format(fmt.substr(0, pos) + to_string(first) + fmt.substr(pos + 2), rest...);
}

template <typename T>
std::string format_spec(const T& value, const std::string& spec) {
    if (spec.empty()) return to_string(value);
    char buffer[64];
    std::snprintf(buffer, sizeof(buffer), ("%" + spec).c_str(), value);
    return buffer;
}

// ---------------------------------------------------------------------
// String helpers (std::string carries none of these itself)
// ---------------------------------------------------------------------
inline int64_t len(const std::string& s) { return static_cast<int64_t>(s.size()); }
template <typename T>
int64_t len(const Vec<T>& v) { return v.size(); }
inline bool is_empty(const std::string& s) { return s.empty(); }
inline bool starts_with(const std::string& s, const std::string& prefix) {
    return s.rfind(prefix, 0) == 0;
}
inline bool ends_with(const std::string& s, const std::string& suffix) {
    return s.size() >= suffix.size() &&
           s.compare(s.size() - suffix.size(), suffix.size(), suffix) == 0;
}
inline bool contains(const std::string& s, const std::string& needle) {
    return s.find(needle) != std::string::npos;
}
inline std::string trim(const std::string& s) {
    size_t first = s.find_first_not_of(" \t\r\n");
    if (first == std::string::npos) return "";
    size_t last = s.find_last_not_of(" \t\r\n");
    return s.substr(first, last - first + 1);
}
inline std::string substr(const std::string& s, int64_t start, int64_t count) {
    return s.substr(static_cast<size_t>(start), static_cast<size_t>(count));
}
inline std::string replace(const std::string& s, const std::string& from, const std::string& to) {
    std::string result = s;
    size_t pos = 0;
    while ((pos = result.find(from, pos)) != std::string::npos) {
        result.replace(pos, from.size(), to);
        pos += to.size();
    }
    return result;
}
inline std::string to_uppercase(std::string s) {
    std::transform(s.begin(), s.end(), s.begin(), ::toupper);
    return s;
}
inline std::string to_lowercase(std::string s) {
    std::transform(s.begin(), s.end(), s.begin(), ::tolower);
    return s;
}
inline Vec<std::string> split(const std::string& s, const std::string& sep) {
    Vec<std::string> parts;
    size_t start = 0;
    size_t pos;
    while ((pos = s.find(sep, start)) != std::string::npos) {
        parts.push(s.substr(start, pos - start));
        start = pos + sep.size();
    }
    parts.push(s.substr(start));
    return parts;
}
inline std::string join(const Vec<std::string>& parts, const std::string& sep) {
    std::string result;
    for (int64_t i = 0; i < parts.size(); ++i) {
        if (i > 0) result += sep;
        result += parts.at(i);
    }
    return result;
}
inline std::string repeat(const std::string& s, int64_t count) {
    std::string result;
    for (int64_t i = 0; i < count; ++i) result += s;
    return result;
}

// ---------------------------------------------------------------------
// Slicing and array fill
// ---------------------------------------------------------------------
template <typename T>
Vec<T> slice(const Vec<T>& v, int64_t start, int64_t end) {
    Vec<T> result;
    if (end < 0) end = v.size();
    for (int64_t i = start; i < end && i < v.size(); ++i) result.push(v.at(i));
    return result;
}
template <typename T>
Vec<T> slice_inclusive(const Vec<T>& v, int64_t start, int64_t end) {
    return slice(v, start, end < 0 ? -1 : end + 1);
}
inline std::string slice(const std::string& s, int64_t start, int64_t end) {
    if (end < 0) end = static_cast<int64_t>(s.size());
    return s.substr(static_cast<size_t>(start), static_cast<size_t>(end - start));
}
inline std::string slice_inclusive(const std::string& s, int64_t start, int64_t end) {
    return slice(s, start, end + 1);
}
template <typename T>
Vec<T> fill_array(const T& value, int64_t count) {
    Vec<T> result;
    for (int64_t i = 0; i < count; ++i) result.push(value);
    return result;
}

// ---------------------------------------------------------------------
// Vec helpers, math, I/O, assertions
// ---------------------------------------------------------------------
template <typename T>
Option<T> first(const Vec<T>& v) { return v.size() > 0 ? Some(v.at(0)) : Option<T>(); }
template <typename T>
Option<T> last(const Vec<T>& v) { return v.size() > 0 ? Some(v.at(v.size() - 1)) : Option<T>(); }
template <typename T>
Vec<T> concat(const Vec<T>& a, const Vec<T>& b) {
    Vec<T> result = a;
    for (const auto& x : b) result.push(x);
    return result;
}
template <typename T>
void vec_sort(Vec<T>& v) { v.sort(); }
template <typename T>
void vec_reverse(Vec<T>& v) { v.reverse(); }
template <typename T>
bool vec_contains(const Vec<T>& v, const T& value) { return v.contains(value); }

template <typename T>
T min(const T& a, const T& b) { return a < b ? a : b; }
template <typename T>
T max(const T& a, const T& b) { return a > b ? a : b; }
template <typename T>
T clamp(const T& value, const T& low, const T& high) {
    return value < low ? low : (value > high ? high : value);
}

inline std::string read_line() {
    std::string line;
    std::getline(std::cin, line);
    return line;
}
inline Option<int64_t> parse_int(const std::string& s) {
    try { return Some<int64_t>(std::stoll(s)); } catch (...) { return Option<int64_t>(); }
}
inline Option<double> parse_float(const std::string& s) {
    try { return Some(std::stod(s)); } catch (...) { return Option<double>(); }
}

inline Result<std::string, std::string> read_file(const std::string& path) {
    std::ifstream in(path);
    if (!in) return Err<std::string>("cannot open file: " + path);
    std::ostringstream oss;
    oss << in.rdbuf();
    return Ok<std::string>(oss.str());
}
inline Result<bool, std::string> write_file(const std::string& path, const std::string& content) {
    std::ofstream out(path);
    if (!out) return Err<std::string>("cannot write file: " + path);
    out << content;
    return Ok(true);
}
inline Result<bool, std::string> append_file(const std::string& path, const std::string& content) {
    std::ofstream out(path, std::ios::app);
    if (!out) return Err<std::string>("cannot append file: " + path);
    out << content;
    return Ok(true);
}
inline bool file_exists(const std::string& path) {
    std::ifstream in(path);
    return in.good();
}
inline Result<bool, std::string> delete_file(const std::string& path) {
    if (std::remove(path.c_str()) != 0) return Err<std::string>("cannot delete file: " + path);
    return Ok(true);
}
inline Result<Vec<std::string>, std::string> read_lines(const std::string& path) {
    std::ifstream in(path);
    if (!in) return Err<std::string>("cannot open file: " + path);
    Vec<std::string> lines;
    std::string line;
    while (std::getline(in, line)) lines.push(line);
    return Ok(lines);
}

inline int64_t time_now_ms() {
    return std::chrono::duration_cast<std::chrono::milliseconds>(
        std::chrono::system_clock::now().time_since_epoch()).count();
}
inline int64_t time_now_secs() { return time_now_ms() / 1000; }
inline void sleep_ms(int64_t ms) {
    std::this_thread::sleep_for(std::chrono::milliseconds(ms));
}
inline int64_t random_int(int64_t low, int64_t high) {
    static std::mt19937_64 rng{std::random_device{}()};
    std::uniform_int_distribution<int64_t> dist(low, high);
    return dist(rng);
}

inline std::string path_join(const std::string& a, const std::string& b) {
    if (a.empty()) return b;
    if (a.back() == '/') return a + b;
    return a + "/" + b;
}
inline std::string path_parent(const std::string& p) {
    size_t pos = p.find_last_of('/');
    return pos == std::string::npos ? "" : p.substr(0, pos);
}
inline std::string path_filename(const std::string& p) {
    size_t pos = p.find_last_of('/');
    return pos == std::string::npos ? p : p.substr(pos + 1);
}
inline std::string path_extension(const std::string& p) {
    std::string name = path_filename(p);
    size_t pos = name.find_last_of('.');
    return pos == std::string::npos ? "" : name.substr(pos + 1);
}
inline bool is_directory(const std::string& p) {
    std::ifstream in(p + "/.");
    return in.good();
}
inline std::string cwd() {
    const char* dir = std::getenv("PWD");
    return dir ? dir : ".";
}
inline Option<std::string> env_get(const std::string& name) {
    const char* value = std::getenv(name.c_str());
    if (!value) return Option<std::string>();
    return Some<std::string>(value);
}

inline void assert_fail(const std::string& message) {
    std::cerr << "assertion failed: " << message << std::endl;
    std::exit(1);
}
inline void assert_true(bool cond) { if (!cond) assert_fail("expected true"); }
inline void assert_false(bool cond) { if (cond) assert_fail("expected false"); }
inline void assert_msg(bool cond, const std::string& message) { if (!cond) assert_fail(message); }
template <typename A, typename B>
void assert_eq(const A& a, const B& b) {
    if (!(a == b)) assert_fail(to_string(a) + " != " + to_string(b));
}
template <typename A, typename B>
void assert_ne(const A& a, const B& b) {
    if (a == b) assert_fail(to_string(a) + " == " + to_string(b));
}
template <typename T>
void assert_some(const Option<T>& opt) { if (opt.is_none()) assert_fail("expected Some"); }
template <typename T>
void assert_none(const Option<T>& opt) { if (opt.is_some()) assert_fail("expected None"); }
template <typename T, typename E>
void assert_ok(const Result<T, E>& r) { if (r.is_err()) assert_fail("expected Ok"); }
template <typename T, typename E>
void assert_err(const Result<T, E>& r) { if (r.is_ok()) assert_fail("expected Err"); }
inline void assert_contains(const std::string& s, const std::string& needle) {
    if (!contains(s, needle)) assert_fail("missing substring: " + needle);
}
inline void assert_empty(const std::string& s) { if (!s.empty()) assert_fail("expected empty"); }
template <typename T>
void assert_len(const Vec<T>& v, int64_t n) {
    if (v.size() != n) assert_fail("unexpected length");
}
inline void assert_str_eq(const std::string& a, const std::string& b) { assert_eq(a, b); }
template <typename A, typename B>
void assert_gt(const A& a, const B& b) { if (!(a > b)) assert_fail("expected greater"); }
template <typename A, typename B>
void assert_lt(const A& a, const B& b) { if (!(a < b)) assert_fail("expected less"); }
template <typename A, typename B>
void assert_ge(const A& a, const B& b) { if (!(a >= b)) assert_fail("expected greater-or-equal"); }
template <typename A, typename B>
void assert_le(const A& a, const B& b) { if (!(a <= b)) assert_fail("expected less-or-equal"); }
inline void assert_approx(double a, double b) {
    if (std::fabs(a - b) > 1e-9) assert_fail("values not approximately equal");
}

} // namespace mana
`
